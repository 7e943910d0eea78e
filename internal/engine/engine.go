package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Engine parses invocations, dispatches them to registered commands, chains
// extensions around the call and routes feedback continuations through the
// mediator. One logical conversation per engine instance; the engine is
// single-threaded and cooperative.
type Engine struct {
	commands   *commandRegistry
	extensions *extensionRegistry
	mediator   *Mediator
	sealed     atomic.Bool
}

func New() *Engine {
	return &Engine{
		commands:   newCommandRegistry(),
		extensions: newExtensionRegistry(),
		mediator:   NewMediator(),
	}
}

// Register adds a command. Duplicates by (namespace, name) are rejected, as
// is any registration after the first ProcessInput.
func (e *Engine) Register(cmd Command) error {
	if e.sealed.Load() {
		return fmt.Errorf("register %q: engine already processing input", cmd.Name())
	}
	return e.commands.register(cmd)
}

// RegisterExtension adds a globally available extension.
func (e *Engine) RegisterExtension(ext Extension) error {
	if e.sealed.Load() {
		return fmt.Errorf("register extension %q: engine already processing input", ext.Name())
	}
	return e.extensions.register(ext)
}

// Commands enumerates registered commands in registration order.
func (e *Engine) Commands() []Command {
	return e.commands.all()
}

// Extensions enumerates registered extensions in registration order.
func (e *Engine) Extensions() []Extension {
	return e.extensions.all()
}

// Mediator exposes the feedback mediator for host-level cancellation.
func (e *Engine) Mediator() *Mediator {
	return e.mediator
}

// ProcessInput is the top-level entry. Input matching the reserved
// continuation shape feedback(requestId, response) is routed to the
// mediator; everything else is parsed and dispatched.
func (e *Engine) ProcessInput(text string) CommandResult {
	e.sealed.Store(true)

	plan, err := Parse(text)
	if err != nil {
		return Failf("Parse error: %v", err)
	}
	if plan.Namespace == "" && strings.EqualFold(plan.Command, CommandFeedback) {
		if len(plan.Args) != 2 || len(plan.Extensions) != 0 {
			return Fail("Usage: feedback(requestId, response)")
		}
		return e.ContinueFeedback(plan.Args[0], plan.Args[1])
	}
	return e.dispatch(plan)
}

// ContinueFeedback resumes a pending feedback conversation.
func (e *Engine) ContinueFeedback(requestID, response string) CommandResult {
	return e.mediator.Continue(requestID, response)
}

func (e *Engine) dispatch(plan *InvocationPlan) CommandResult {
	cmd, ok := e.commands.resolve(plan.Namespace, plan.Command)
	if !ok {
		return Failf("Unknown command '%s'", qualified(plan.Namespace, plan.Command))
	}
	if pc := cmd.ParameterCount(); pc >= 0 && len(plan.Args) != pc {
		return Failf("Usage: %s", SignatureOf(cmd))
	}

	body := Executor(cmd.Execute)
	// Wrap in reverse order so the leftmost extension in source text runs
	// outermost and sees the result of the inner chain.
	for i := len(plan.Extensions) - 1; i >= 0; i-- {
		call := plan.Extensions[i]
		ext, res := e.resolveExtension(cmd, call)
		if ext == nil {
			return res
		}
		if pc := ext.ParameterCount(); pc >= 0 && len(call.Args) != pc {
			return Failf("Usage: .%s", Signature{Namespace: call.Namespace, Name: call.Name, ParameterCount: pc})
		}
		inner := body
		extArgs := call.Args
		wrapped := ext
		body = func(args []string) CommandResult {
			return wrapped.Invoke(cmd, extArgs, inner, args)
		}
	}

	return e.finish(body(plan.Args))
}

// resolveExtension consults the command's declared extension table before the
// global registry. A declared name is reserved: it must not resolve to the
// global extension of the same name.
func (e *Engine) resolveExtension(cmd Command, call ExtensionCall) (Extension, CommandResult) {
	if decl, ok := cmd.(ExtensionDeclarer); ok {
		for name := range decl.DeclaredExtensions() {
			if strings.EqualFold(name, call.Name) {
				return nil, Failf("Unknown extension '%s'", call.Name)
			}
		}
	}
	ext, ok := e.extensions.resolve(call.Namespace, call.Name)
	if !ok {
		return nil, Failf("Unknown extension '%s'", call.Name)
	}
	return ext, CommandResult{}
}

// finish registers a first-crossing feedback request and enforces the
// confirmation invariant on the way out.
func (e *Engine) finish(res CommandResult) CommandResult {
	if res.Feedback != nil {
		if res.Feedback.RequestID == "" {
			e.mediator.Register(res.Feedback)
		}
		res.RequiresConfirmation = true
		return res
	}
	res.RequiresConfirmation = false
	return res
}
