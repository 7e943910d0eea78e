package commands

import (
	"fmt"
	"strings"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/vars"
)

// SampleCommand echoes its argument. It exists to demonstrate namespaced
// dispatch and extension chaining.
type SampleCommand struct{}

func (c *SampleCommand) Name() string        { return "sample" }
func (c *SampleCommand) Namespace() string   { return engine.NamespaceSystem }
func (c *SampleCommand) Description() string { return "Echo the given text" }
func (c *SampleCommand) ParameterCount() int { return 1 }

func (c *SampleCommand) Execute(args []string) engine.CommandResult {
	return engine.OkValue(args[0], args[0], vars.Wstring)
}

func (c *SampleCommand) Preview(args []string) engine.CommandResult {
	return engine.Okf("Would echo %q", args[0])
}

// TryRunExtension previews a command instead of executing it. Commands
// expose the capability explicitly; there is no runtime type probing beyond
// the interface check, and the body is never executed.
type TryRunExtension struct{}

func (e *TryRunExtension) Name() string        { return engine.ExtensionTryRun }
func (e *TryRunExtension) Namespace() string   { return engine.NamespaceSystem }
func (e *TryRunExtension) Description() string { return "Preview a command without executing it" }
func (e *TryRunExtension) ParameterCount() int { return 0 }

func (e *TryRunExtension) Invoke(cmd engine.Command, _ []string, _ engine.Executor, args []string) engine.CommandResult {
	if p, ok := cmd.(engine.Previewer); ok {
		return p.Preview(args)
	}
	return engine.Okf("'%s' does not support preview; nothing was executed", cmd.Name())
}

// SampleExtension wraps the inner result's message, optionally tagged.
type SampleExtension struct{}

func (e *SampleExtension) Name() string        { return "sample" }
func (e *SampleExtension) Namespace() string   { return engine.NamespaceSystem }
func (e *SampleExtension) Description() string { return "Wrap the inner result's message" }
func (e *SampleExtension) ParameterCount() int { return -1 }

func (e *SampleExtension) Invoke(_ engine.Command, extArgs []string, next engine.Executor, args []string) engine.CommandResult {
	res := next(args)
	tag := "sample"
	if len(extArgs) > 0 {
		tag = strings.Join(extArgs, " ")
	}
	res.Message = fmt.Sprintf("[%s] %s", tag, res.Message)
	return res
}
