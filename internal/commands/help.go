// Package commands provides the built-in command and extension set.
package commands

import (
	"fmt"
	"strings"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/version"
)

// HelpCommand prints an overview, or one command's description when given a
// name. Variadic so both help() and help(name) dispatch; it validates the
// argument count itself.
type HelpCommand struct {
	Engine *engine.Engine
}

func (c *HelpCommand) Name() string        { return engine.CommandHelp }
func (c *HelpCommand) Namespace() string   { return engine.NamespaceSystem }
func (c *HelpCommand) Description() string { return "Show available commands, or details for one" }
func (c *HelpCommand) ParameterCount() int { return -1 }

func (c *HelpCommand) Execute(args []string) engine.CommandResult {
	switch len(args) {
	case 0:
		return c.overview()
	case 1:
		return c.detail(args[0])
	default:
		return engine.Fail("Usage: help() or help(command)")
	}
}

func (c *HelpCommand) overview() engine.CommandResult {
	var b strings.Builder
	fmt.Fprintln(&b, version.Get())
	fmt.Fprintln(&b, "Commands:")
	for _, cmd := range c.Engine.Commands() {
		fmt.Fprintf(&b, "  %s — %s\n", engine.SignatureOf(cmd), cmd.Description())
	}
	if exts := c.Engine.Extensions(); len(exts) > 0 {
		fmt.Fprintln(&b, "Extensions:")
		for _, ext := range exts {
			fmt.Fprintf(&b, "  .%s — %s\n", ext.Name(), ext.Description())
		}
	}
	return engine.Ok(b.String())
}

func (c *HelpCommand) detail(name string) engine.CommandResult {
	for _, cmd := range c.Engine.Commands() {
		if strings.EqualFold(cmd.Name(), name) {
			return engine.Okf("%s — %s", engine.SignatureOf(cmd), cmd.Description())
		}
	}
	return engine.Failf("Unknown command '%s'", name)
}

// ListCommand prints registered command signatures, one per line.
type ListCommand struct {
	Engine *engine.Engine
}

func (c *ListCommand) Name() string        { return engine.CommandList }
func (c *ListCommand) Namespace() string   { return engine.NamespaceSystem }
func (c *ListCommand) Description() string { return "List registered commands" }
func (c *ListCommand) ParameterCount() int { return 0 }

func (c *ListCommand) Execute([]string) engine.CommandResult {
	var b strings.Builder
	for _, cmd := range c.Engine.Commands() {
		fmt.Fprintln(&b, engine.SignatureOf(cmd))
	}
	return engine.Ok(b.String())
}

// VersionCommand prints the build identity.
type VersionCommand struct{}

func (c *VersionCommand) Name() string        { return "version" }
func (c *VersionCommand) Namespace() string   { return engine.NamespaceSystem }
func (c *VersionCommand) Description() string { return "Show the engine version" }
func (c *VersionCommand) ParameterCount() int { return 0 }

func (c *VersionCommand) Execute([]string) engine.CommandResult {
	return engine.Ok(version.Get().String())
}
