package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/weavercmd/weaver/internal/engine"
)

var yesNo = []string{"yes", "no"}

// DeleteCommand removes a file after an interactive confirmation. The
// confirmation is a feedback request: execution suspends until the mediator
// routes the user's response back to the responder.
type DeleteCommand struct{}

func (c *DeleteCommand) Name() string        { return "delete" }
func (c *DeleteCommand) Namespace() string   { return "" }
func (c *DeleteCommand) Description() string { return "Delete a file, asking for confirmation first" }
func (c *DeleteCommand) ParameterCount() int { return 1 }

func (c *DeleteCommand) Execute(args []string) engine.CommandResult {
	path := args[0]
	prompt := fmt.Sprintf("Delete '%s'?", path)

	var respond func(input string) engine.CommandResult
	respond = func(input string) engine.CommandResult {
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "yes", "y":
			if err := os.Remove(path); err != nil {
				return engine.Failf("delete '%s': %v", path, err)
			}
			return engine.Okf("'%s' deleted", path)
		case "no", "n":
			return engine.Failf("Delete of '%s' cancelled", path)
		default:
			// Re-prompt: the failed result carries a fresh request that the
			// mediator registers under a new id.
			res := engine.Failf("Unrecognized response %q", input)
			res.Feedback = &engine.FeedbackRequest{
				Prompt:    prompt,
				Options:   yesNo,
				Responder: respond,
			}
			return res
		}
	}
	return engine.Confirm(prompt, yesNo, respond)
}

// Preview reports what Execute would do, without touching the file.
func (c *DeleteCommand) Preview(args []string) engine.CommandResult {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return engine.Okf("Would delete '%s' (not currently present: %v)", path, err)
	}
	return engine.Okf("Would delete '%s'", path)
}
