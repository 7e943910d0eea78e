package channel

import (
	"bufio"
	"fmt"
	"io"

	"github.com/weavercmd/weaver/internal/output"
)

// Console is the line-oriented read loop over stdin (or any reader). EOF is
// a clean shutdown, same as exit().
type Console struct {
	Conv   *Conversation
	In     io.Reader
	Out    output.Sink
	Prompt io.Writer // optional; receives "> " ("? " while a feedback request is pending) before each read
}

func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		c.prompt()
		if !scanner.Scan() {
			c.Conv.cancelPending()
			return scanner.Err()
		}
		reply, done := c.Conv.Handle(scanner.Text())
		if reply != "" {
			c.Out.Write(reply)
		}
		if done {
			return nil
		}
	}
}

func (c *Console) prompt() {
	if c.Prompt == nil {
		return
	}
	if c.Conv.PendingRequestID() != "" {
		_, _ = fmt.Fprint(c.Prompt, "? ")
		return
	}
	_, _ = fmt.Fprint(c.Prompt, "> ")
}
