package script

import (
	"strings"
	"testing"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/vars"
)

const loopSource = "let i : int = 0\nloop:\nlet i : int = i + 1\nif i < 3 goto loop\nhalt"

type recordingCommand struct {
	name  string
	calls []string
	fn    func(args []string) engine.CommandResult
}

func (c *recordingCommand) Name() string        { return c.name }
func (c *recordingCommand) Namespace() string   { return "" }
func (c *recordingCommand) Description() string { return "records calls" }
func (c *recordingCommand) ParameterCount() int { return -1 }
func (c *recordingCommand) Execute(args []string) engine.CommandResult {
	c.calls = append(c.calls, strings.Join(args, ","))
	if c.fn != nil {
		return c.fn(args)
	}
	return engine.Ok("ok")
}

func TestRunLoopMutatesRegistry(t *testing.T) {
	reg := vars.NewRegistry()
	prog, err := Compile(loopSource, reg)
	if err != nil {
		t.Fatal(err)
	}

	res := prog.Run(engine.New(), 100)
	if !res.Success {
		t.Fatal(res.Message)
	}
	v, typ, ok := reg.TryGet("i")
	if !ok || typ != vars.Wint {
		t.Fatalf("i missing or wrong type: %v %s", v, typ)
	}
	if v.(int64) != 3 {
		t.Errorf("i = %v, want 3", v)
	}
}

func TestRunIterationLimit(t *testing.T) {
	reg := vars.NewRegistry()
	prog, err := Compile(loopSource, reg)
	if err != nil {
		t.Fatal(err)
	}

	res := prog.Run(engine.New(), 2)
	if res.Success || res.Message != "Iteration limit reached" {
		t.Errorf("result = %+v", res)
	}
}

func TestRunPerformsAtMostKDispatches(t *testing.T) {
	reg := vars.NewRegistry()
	cmd := &recordingCommand{name: "tick"}
	eng := engine.New()
	if err := eng.Register(cmd); err != nil {
		t.Fatal(err)
	}

	prog, err := Compile("top:\ntick()\ngoto top", reg)
	if err != nil {
		t.Fatal(err)
	}
	prog.Run(eng, 5)
	// 5 dispatches alternate call/goto: tick runs at most 3 times.
	if len(cmd.calls) > 3 {
		t.Errorf("tick ran %d times", len(cmd.calls))
	}
}

func TestStepperSingleSteps(t *testing.T) {
	reg := vars.NewRegistry()
	prog, err := Compile("let a : int = 1\nlet b : int = a + 1\nhalt", reg)
	if err != nil {
		t.Fatal(err)
	}
	s := NewStepper(prog, engine.New())

	if s.Pointer() != 0 || s.Finished() {
		t.Fatal("fresh stepper state")
	}
	s.ExecuteNext()
	if s.Pointer() != 1 {
		t.Errorf("ip = %d", s.Pointer())
	}
	s.ExecuteNext()
	s.ExecuteNext() // halt
	if !s.Finished() {
		t.Error("expected finished after halt")
	}
	if v, _, _ := reg.TryGet("b"); v.(int64) != 2 {
		t.Errorf("b = %v", v)
	}

	// Further steps are no-ops.
	before := s.Pointer()
	s.ExecuteNext()
	if s.Pointer() != before {
		t.Error("finished stepper advanced")
	}
}

func TestStepperStringAssignStoresRawText(t *testing.T) {
	reg := vars.NewRegistry()
	prog, err := Compile("let s : string = 2 + 3 * 4", reg)
	if err != nil {
		t.Fatal(err)
	}
	NewStepper(prog, engine.New()).ExecuteNext()

	v, typ, _ := reg.TryGet("s")
	if typ != vars.Wstring || v.(string) != "2 + 3 * 4" {
		t.Errorf("s = %v : %s", v, typ)
	}
}

func TestStepperRuntimeError(t *testing.T) {
	reg := vars.NewRegistry()
	prog, err := Compile("let x : int = missing + 1", reg)
	if err != nil {
		t.Fatal(err)
	}
	s := NewStepper(prog, engine.New())

	res := s.ExecuteNext()
	if res.Success || !strings.HasPrefix(res.Message, "Runtime error:") {
		t.Errorf("result = %+v", res)
	}
	if !s.Finished() {
		t.Error("runtime error must stop the program")
	}
}

func TestStepperSurfacesFeedback(t *testing.T) {
	eng := engine.New()
	cmd := &recordingCommand{name: "ask", fn: func([]string) engine.CommandResult {
		return engine.Confirm("Proceed?", []string{"yes", "no"}, func(input string) engine.CommandResult {
			return engine.Ok("resumed with " + input)
		})
	}}
	if err := eng.Register(cmd); err != nil {
		t.Fatal(err)
	}

	reg := vars.NewRegistry()
	prog, err := Compile("ask()\nhalt", reg)
	if err != nil {
		t.Fatal(err)
	}
	s := NewStepper(prog, eng)

	res := s.ExecuteNext()
	if !res.RequiresConfirmation || res.Feedback == nil || res.Feedback.RequestID == "" {
		t.Fatalf("feedback not surfaced: %+v", res)
	}
	if s.Finished() {
		t.Fatal("stepper should be resumable")
	}

	// External caller resolves the feedback, then resumes stepping.
	cont := eng.ContinueFeedback(res.Feedback.RequestID, "yes")
	if !cont.Success || cont.Message != "resumed with yes" {
		t.Fatalf("continuation = %+v", cont)
	}
	s.ExecuteNext() // halt
	if !s.Finished() {
		t.Error("expected finished")
	}
}

func TestRunStopsOnFeedback(t *testing.T) {
	eng := engine.New()
	cmd := &recordingCommand{name: "ask", fn: func([]string) engine.CommandResult {
		return engine.Confirm("Proceed?", nil, func(string) engine.CommandResult { return engine.Ok("done") })
	}}
	if err := eng.Register(cmd); err != nil {
		t.Fatal(err)
	}
	prog, err := Compile("ask()\nhalt", vars.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	res := prog.Run(eng, 10)
	if !res.RequiresConfirmation {
		t.Errorf("result = %+v", res)
	}
}

func TestRunIgnoresFailedCalls(t *testing.T) {
	eng := engine.New()
	prog, err := Compile("nosuch()\nlet a : int = 7\nhalt", vars.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	// The unknown-command failure is a call result; the script carries on.
	res := prog.Run(eng, 10)
	if !res.Success {
		t.Errorf("result = %+v", res)
	}
}

func TestRunIgnoresFailedCallAsLastInstruction(t *testing.T) {
	eng := engine.New()
	// No trailing halt: the failing call runs the pointer off the end.
	prog, err := Compile("nosuch()", vars.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	res := prog.Run(eng, 10)
	if !res.Success || res.Message != "Script completed" {
		t.Errorf("result = %+v", res)
	}
}

func TestRunStopsOnRuntimeError(t *testing.T) {
	eng := engine.New()
	prog, err := Compile("let x : int = missing + 1\nhelp()", vars.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	res := prog.Run(eng, 10)
	if res.Success || !strings.HasPrefix(res.Message, "Runtime error:") {
		t.Errorf("result = %+v", res)
	}
}
