// Package channel adapts the engine to interactive hosts: a console read
// loop and a websocket endpoint share one conversation core.
package channel

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/history"
	"github.com/weavercmd/weaver/internal/metrics"
)

// Conversation drives one engine instance through a line-oriented exchange.
// When a result suspends on feedback, the next line is routed to the pending
// request instead of the dispatcher.
type Conversation struct {
	Engine  *engine.Engine
	History history.Store    // optional
	Metrics *metrics.Metrics // optional

	pending string
}

// Handle processes one input line and returns the reply text plus whether
// the conversation is over. exit() (or plain exit) ends it cleanly.
func (c *Conversation) Handle(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if line == "exit" || strings.EqualFold(line, "exit()") {
		c.cancelPending()
		return "Bye.", true
	}

	start := time.Now()
	var res engine.CommandResult
	if c.pending != "" {
		id := c.pending
		c.pending = ""
		res = c.Engine.ContinueFeedback(id, line)
	} else {
		res = c.Engine.ProcessInput(line)
	}
	c.observe(line, res, time.Since(start))

	return c.render(res), false
}

// PendingRequestID returns the id the next line will answer, if any.
func (c *Conversation) PendingRequestID() string {
	return c.pending
}

func (c *Conversation) cancelPending() {
	if c.pending != "" {
		c.Engine.Mediator().Cancel(c.pending)
		c.pending = ""
	}
}

func (c *Conversation) render(res engine.CommandResult) string {
	var b strings.Builder
	if res.Success {
		b.WriteString(strings.TrimRight(res.Message, "\n"))
	} else {
		b.WriteString("Error: " + strings.TrimRight(res.Message, "\n"))
	}
	if res.RequiresConfirmation && res.Feedback != nil {
		c.pending = res.Feedback.RequestID
		if res.Feedback.Prompt != res.Message {
			b.WriteString("\n" + res.Feedback.Prompt)
		}
		if len(res.Feedback.Options) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(res.Feedback.Options, "/"))
		}
	}
	return b.String()
}

func (c *Conversation) observe(input string, res engine.CommandResult, d time.Duration) {
	if c.Metrics != nil {
		c.Metrics.ObserveDispatch(res.Success, d)
		c.Metrics.SetPendingFeedback(c.Engine.Mediator().PendingCount())
	}
	if c.History != nil {
		if _, err := c.History.Add(context.Background(), input, res.Success, res.Message); err != nil {
			log.Printf("Warning: history: %v", err)
		}
	}
}
