// Package luasource discovers commands from Lua scripts in a directory. It
// is the pluggable command source for hosts that want drop-in commands
// without compiling anything: each .lua file describes and implements one
// command.
//
// A script sets the globals name (required), namespace, description and
// params (default -1), and defines execute(args) returning either a string
// message or a table { success, message }.
package luasource

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/weavercmd/weaver/internal/engine"
)

// Load reads every .lua file in dir and returns one command per valid
// script. Per-file failures are isolated and logged; the call itself only
// fails when the directory cannot be read.
func Load(dir string) ([]engine.Command, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("lua source: %w", err)
	}
	var cmds []engine.Command
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".lua") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		cmd, err := load(path)
		if err != nil {
			log.Printf("Warning: lua command %s: %v", e.Name(), err)
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// Command runs a Lua script's execute function per invocation. Each call
// gets a fresh interpreter state, so scripts cannot leak state between
// invocations.
type Command struct {
	name        string
	namespace   string
	description string
	params      int
	path        string
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Namespace() string   { return c.namespace }
func (c *Command) Description() string { return c.description }
func (c *Command) ParameterCount() int { return c.params }

func load(path string) (*Command, error) {
	ls := lua.NewState()
	defer ls.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("script path: %w", err)
	}
	if err := ls.DoFile(absPath); err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}

	name := lua.LVAsString(ls.GetGlobal("name"))
	if name == "" {
		return nil, fmt.Errorf("script must set global name")
	}
	if fn := ls.GetGlobal("execute"); fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("script must define global function execute(args)")
	}
	cmd := &Command{
		name:        name,
		namespace:   lua.LVAsString(ls.GetGlobal("namespace")),
		description: lua.LVAsString(ls.GetGlobal("description")),
		params:      -1,
		path:        absPath,
	}
	if p := ls.GetGlobal("params"); p.Type() == lua.LTNumber {
		cmd.params = int(lua.LVAsNumber(p))
	}
	if cmd.description == "" {
		cmd.description = "Lua command from " + filepath.Base(path)
	}
	return cmd, nil
}

func (c *Command) Execute(args []string) engine.CommandResult {
	ls := lua.NewState()
	defer ls.Close()

	if err := ls.DoFile(c.path); err != nil {
		return engine.Failf("lua %s: load script: %v", c.name, err)
	}
	fn := ls.GetGlobal("execute")
	if fn.Type() != lua.LTFunction {
		return engine.Failf("lua %s: execute is not a function", c.name)
	}

	tbl := ls.NewTable()
	for _, a := range args {
		tbl.Append(lua.LString(a))
	}
	ls.Push(fn)
	ls.Push(tbl)
	if err := ls.PCall(1, 1, nil); err != nil {
		return engine.Failf("lua %s: execute(): %v", c.name, err)
	}

	ret := ls.Get(-1)
	ls.Pop(1)
	switch v := ret.(type) {
	case lua.LString:
		return engine.Ok(string(v))
	case *lua.LTable:
		success := true
		if s := v.RawGetString("success"); s.Type() == lua.LTBool {
			success = lua.LVAsBool(s)
		}
		message := lua.LVAsString(v.RawGetString("message"))
		if success {
			return engine.Ok(message)
		}
		return engine.Fail(message)
	default:
		return engine.Failf("lua %s: execute must return a string or a table", c.name)
	}
}
