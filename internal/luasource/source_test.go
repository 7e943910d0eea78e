package luasource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const greetScript = `
name = "greet"
namespace = "plugin"
description = "Greet someone"
params = 1

function execute(args)
    return "Hello, " .. args[1] .. "!"
end
`

const failScript = `
name = "brittle"

function execute(args)
    return { success = false, message = "told you so" }
end
`

const brokenScript = `this is not lua (`

func writeScripts(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadDiscoversCommands(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"greet.lua":  greetScript,
		"notes.txt":  "ignored",
		"broken.lua": brokenScript, // isolated failure, logged and skipped
	})

	cmds, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 1 {
		t.Fatalf("len = %d", len(cmds))
	}
	cmd := cmds[0]
	if cmd.Name() != "greet" || cmd.Namespace() != "plugin" || cmd.ParameterCount() != 1 {
		t.Errorf("command = %s:%s(%d)", cmd.Namespace(), cmd.Name(), cmd.ParameterCount())
	}
}

func TestLuaCommandExecute(t *testing.T) {
	dir := writeScripts(t, map[string]string{"greet.lua": greetScript})
	cmds, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := cmds[0].Execute([]string{"weaver"})
	if !res.Success || res.Message != "Hello, weaver!" {
		t.Errorf("result = %+v", res)
	}
}

func TestLuaCommandFailureTable(t *testing.T) {
	dir := writeScripts(t, map[string]string{"brittle.lua": failScript})
	cmds, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := cmds[0].Execute(nil)
	if res.Success || res.Message != "told you so" {
		t.Errorf("result = %+v", res)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	} else if !strings.Contains(err.Error(), "lua source") {
		t.Errorf("error = %v", err)
	}
}
