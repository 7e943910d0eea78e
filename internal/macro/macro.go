// Package macro loads command definitions from YAML files: each definition
// names a command whose body is a weaver script. Arguments are exposed to
// the script as arg1..argN variables before it runs: numeric-looking
// arguments as doubles, all others as strings.
package macro

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/script"
	"github.com/weavercmd/weaver/internal/vars"
)

// File is one YAML document declaring macro commands.
type File struct {
	Commands []Spec `yaml:"commands"`
}

// Spec declares one macro command.
type Spec struct {
	Name        string `yaml:"name"`
	Namespace   string `yaml:"namespace"`
	Description string `yaml:"description"`
	Params      int    `yaml:"params"`
	Script      string `yaml:"script"`
}

// Runtime is what a macro needs at execution time.
type Runtime struct {
	Engine        *engine.Engine
	Vars          *vars.Registry
	MaxIterations int
}

// Load reads every .yaml/.yml file in dir. Scripts are compiled at load
// time so broken macros are rejected before registration; per-file failures
// are isolated and logged.
func Load(dir string, rt Runtime) ([]engine.Command, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("macro source: %w", err)
	}
	var cmds []engine.Command
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("Warning: macro file %s: %v", name, err)
			continue
		}
		var f File
		if err := yaml.Unmarshal(body, &f); err != nil {
			log.Printf("Warning: macro file %s: %v", name, err)
			continue
		}
		for _, spec := range f.Commands {
			cmd, err := build(spec, rt)
			if err != nil {
				log.Printf("Warning: macro %s (%s): %v", spec.Name, name, err)
				continue
			}
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

func build(spec Spec, rt Runtime) (*Command, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("macro needs a name")
	}
	if strings.TrimSpace(spec.Script) == "" {
		return nil, fmt.Errorf("macro needs a script body")
	}
	prog, err := script.Compile(spec.Script, rt.Vars)
	if err != nil {
		return nil, err
	}
	desc := spec.Description
	if desc == "" {
		desc = "Macro command " + spec.Name
	}
	return &Command{spec: spec, description: desc, program: prog, rt: rt}, nil
}

// Command is one compiled macro.
type Command struct {
	spec        Spec
	description string
	program     *script.Program
	rt          Runtime
}

func (c *Command) Name() string        { return c.spec.Name }
func (c *Command) Namespace() string   { return c.spec.Namespace }
func (c *Command) Description() string { return c.description }
func (c *Command) ParameterCount() int { return c.spec.Params }

func (c *Command) Execute(args []string) engine.CommandResult {
	for i, a := range args {
		key := fmt.Sprintf("arg%d", i+1)
		// Numeric-looking arguments are stored as doubles so scripts can do
		// arithmetic on them.
		if n, err := strconv.ParseFloat(a, 64); err == nil {
			c.rt.Vars.Set(key, n, vars.Wdouble)
		} else {
			c.rt.Vars.Set(key, a, vars.Wstring)
		}
	}
	return c.program.Run(c.rt.Engine, c.rt.MaxIterations)
}
