package commands

import (
	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/history"
	"github.com/weavercmd/weaver/internal/vars"
)

// Options carries the collaborators the built-in set needs.
type Options struct {
	Vars          *vars.Registry
	History       history.Store // nil disables the history command
	MaxIterations int
}

// Register wires the built-in commands and extensions into the engine.
func Register(eng *engine.Engine, opts Options) error {
	eval := vars.NewEvaluator(opts.Vars)

	cmds := []engine.Command{
		&HelpCommand{Engine: eng},
		&ListCommand{Engine: eng},
		&VersionCommand{},
		&DeleteCommand{},
		&SetValueCommand{Vars: opts.Vars, Eval: eval},
		&GetValueCommand{Vars: opts.Vars},
		&DelValueCommand{Vars: opts.Vars},
		&ValuesCommand{Vars: opts.Vars},
		&ClearValuesCommand{Vars: opts.Vars},
		&EvaluateCommand{Eval: eval},
		&SampleCommand{},
		&RunScriptCommand{Engine: eng, Vars: opts.Vars, MaxIterations: opts.MaxIterations},
	}
	if opts.History != nil {
		cmds = append(cmds, &HistoryCommand{Store: opts.History})
	}
	for _, cmd := range cmds {
		if err := eng.Register(cmd); err != nil {
			return err
		}
	}

	for _, ext := range []engine.Extension{
		&TryRunExtension{},
		&SampleExtension{},
	} {
		if err := eng.RegisterExtension(ext); err != nil {
			return err
		}
	}
	return nil
}
