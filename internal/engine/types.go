package engine

import (
	"fmt"
	"strings"

	"github.com/weavercmd/weaver/internal/vars"
)

// Executor runs the next inner step of a dispatch: the next extension in the
// chain, or finally the command body.
type Executor func(args []string) CommandResult

// Command is a named, parameterized unit of work registered with the engine.
// ParameterCount of -1 means variadic; the dispatcher skips arity validation
// and the command validates its own arguments.
type Command interface {
	Name() string
	Namespace() string
	Description() string
	ParameterCount() int
	Execute(args []string) CommandResult
}

// Previewer is the optional preview capability. Extensions that offer a dry
// run call Preview when the command implements it.
type Previewer interface {
	Preview(args []string) CommandResult
}

// ExtensionDeclarer lets a command reserve extension names together with
// their required argument counts. A reserved name never resolves to a
// globally registered extension of the same name.
type ExtensionDeclarer interface {
	DeclaredExtensions() map[string]int
}

// Extension wraps a command dispatch. Invoke receives the resolved command,
// the extension's own arguments, and next, which runs the inner step with a
// possibly modified argument vector. Extensions compose by delegation.
type Extension interface {
	Name() string
	Namespace() string
	Description() string
	ParameterCount() int
	Invoke(cmd Command, extArgs []string, next Executor, args []string) CommandResult
}

// CommandResult is the outcome of one invocation. Errors are values: a failed
// result, never a panic across the engine boundary.
//
// Invariant: RequiresConfirmation is true exactly when Feedback is non-nil;
// the engine normalizes results on their way out.
type CommandResult struct {
	Success              bool
	Message              string
	Value                interface{}
	Type                 vars.Type
	RequiresConfirmation bool
	Feedback             *FeedbackRequest
}

// FeedbackRequest suspends a command awaiting a user response. RequestID is
// assigned by the mediator when the result first crosses the engine boundary.
// Options is a display hint, not a whitelist.
type FeedbackRequest struct {
	RequestID string
	Prompt    string
	Options   []string
	Responder func(input string) CommandResult
}

func Ok(message string) CommandResult {
	return CommandResult{Success: true, Message: message, Type: vars.Wnull}
}

func Okf(format string, a ...interface{}) CommandResult {
	return Ok(fmt.Sprintf(format, a...))
}

// OkValue is a successful result carrying a typed value.
func OkValue(message string, value interface{}, t vars.Type) CommandResult {
	return CommandResult{Success: true, Message: message, Value: value, Type: t}
}

func Fail(message string) CommandResult {
	return CommandResult{Success: false, Message: message, Type: vars.Wnull}
}

func Failf(format string, a ...interface{}) CommandResult {
	return Fail(fmt.Sprintf(format, a...))
}

// Confirm suspends execution: the returned result carries a feedback request
// that the mediator will register and stamp with an id.
func Confirm(prompt string, options []string, responder func(input string) CommandResult) CommandResult {
	return CommandResult{
		Success:              true,
		Message:              prompt,
		Type:                 vars.Wnull,
		RequiresConfirmation: true,
		Feedback: &FeedbackRequest{
			Prompt:    prompt,
			Options:   options,
			Responder: responder,
		},
	}
}

// Signature identifies a command: case-insensitive on namespace and name,
// exact on the parameter count.
type Signature struct {
	Namespace      string
	Name           string
	ParameterCount int
}

func SignatureOf(cmd Command) Signature {
	return Signature{Namespace: cmd.Namespace(), Name: cmd.Name(), ParameterCount: cmd.ParameterCount()}
}

func (s Signature) Equal(o Signature) bool {
	return strings.EqualFold(s.Namespace, o.Namespace) &&
		strings.EqualFold(s.Name, o.Name) &&
		s.ParameterCount == o.ParameterCount
}

func (s Signature) String() string {
	name := s.Name
	if s.Namespace != "" {
		name = s.Namespace + ":" + s.Name
	}
	if s.ParameterCount < 0 {
		return name + "(…)"
	}
	params := make([]string, s.ParameterCount)
	for i := range params {
		params[i] = fmt.Sprintf("arg%d", i+1)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(params, ", "))
}
