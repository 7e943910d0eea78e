package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/history"
)

// HistoryCommand lists recent invocations from the history store.
type HistoryCommand struct {
	Store history.Store
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Namespace() string   { return engine.NamespaceSystem }
func (c *HistoryCommand) Description() string { return "Show recent invocations: history(count)" }
func (c *HistoryCommand) ParameterCount() int { return 1 }

func (c *HistoryCommand) Execute(args []string) engine.CommandResult {
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return engine.Failf("history: count must be a positive integer, got %q", args[0])
	}
	recs, err := c.Store.Recent(context.Background(), n)
	if err != nil {
		return engine.Failf("history: %v", err)
	}
	if len(recs) == 0 {
		return engine.Ok("No history recorded")
	}
	var b strings.Builder
	for _, r := range recs {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(&b, "%s  %-6s  %s\n", r.At.Format("2006-01-02 15:04:05"), status, r.Input)
	}
	return engine.Ok(b.String())
}
