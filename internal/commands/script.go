package commands

import (
	"os"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/script"
	"github.com/weavercmd/weaver/internal/vars"
)

// RunScriptCommand compiles a script file and runs it against the engine
// under the host iteration budget.
type RunScriptCommand struct {
	Engine        *engine.Engine
	Vars          *vars.Registry
	MaxIterations int
}

func (c *RunScriptCommand) Name() string        { return "runscript" }
func (c *RunScriptCommand) Namespace() string   { return engine.NamespaceSystem }
func (c *RunScriptCommand) Description() string { return "Compile and run a script file: runscript(path)" }
func (c *RunScriptCommand) ParameterCount() int { return 1 }

func (c *RunScriptCommand) Execute(args []string) engine.CommandResult {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return engine.Failf("read script '%s': %v", args[0], err)
	}
	prog, err := script.Compile(string(source), c.Vars)
	if err != nil {
		return engine.Fail(err.Error())
	}
	return prog.Run(c.Engine, c.MaxIterations)
}
