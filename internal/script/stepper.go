package script

import (
	"math"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/vars"
)

// Stepper is the execution cursor over a compiled program. One instruction
// per ExecuteNext; conditional and unconditional jumps resolve against the
// label map built at compile time.
type Stepper struct {
	program    *Program
	engine     *engine.Engine
	ip         int
	finished   bool
	runtimeErr bool
}

func NewStepper(p *Program, eng *engine.Engine) *Stepper {
	return &Stepper{program: p, engine: eng}
}

// Finished reports whether the program has halted, run off the end, or
// stopped on a runtime error.
func (s *Stepper) Finished() bool { return s.finished }

// Pointer returns the current instruction index.
func (s *Stepper) Pointer() int { return s.ip }

// ExecuteNext advances one instruction. Call results are ignored except when
// they carry a pending feedback, which is surfaced so the caller can resolve
// it before resuming. Evaluation failures stop the program with a runtime
// error result.
func (s *Stepper) ExecuteNext() engine.CommandResult {
	if s.finished {
		return engine.Ok("")
	}
	if s.ip >= len(s.program.instructions) {
		s.finished = true
		return engine.Ok("")
	}

	inst := s.program.instructions[s.ip]
	switch inst.op {
	case opCall:
		res := s.engine.ProcessInput(inst.text)
		s.advance(s.ip + 1)
		return res

	case opAssign:
		if err := s.assign(inst); err != nil {
			s.fail()
			return engine.Failf("Runtime error: %v (line %d)", err, inst.line)
		}
		s.advance(s.ip + 1)
		return engine.Ok("")

	case opIfGoto:
		eval := vars.NewEvaluator(s.program.vars)
		cond, err := eval.Bool(inst.expr)
		if err != nil {
			s.fail()
			return engine.Failf("Runtime error: %v (line %d)", err, inst.line)
		}
		if cond {
			s.advance(inst.target)
		} else {
			s.advance(s.ip + 1)
		}
		return engine.Ok("")

	case opGoto:
		s.advance(inst.target)
		return engine.Ok("")

	default: // opHalt
		s.finished = true
		return engine.Ok("")
	}
}

func (s *Stepper) advance(next int) {
	s.ip = next
	if s.ip >= len(s.program.instructions) {
		s.finished = true
	}
}

// fail stops the program on a runtime error. The flag lets Run tell this
// apart from a program that merely finished on a failing Call result.
func (s *Stepper) fail() {
	s.finished = true
	s.runtimeErr = true
}

func (s *Stepper) assign(inst instruction) error {
	switch inst.valueType {
	case vars.Wstring:
		// String targets store the raw trimmed text.
		s.program.vars.Set(inst.key, inst.expr, vars.Wstring)
		return nil
	case vars.Wint:
		eval := vars.NewEvaluator(s.program.vars)
		n, err := eval.Numeric(inst.expr)
		if err != nil {
			return err
		}
		s.program.vars.Set(inst.key, int64(math.Round(n)), vars.Wint)
		return nil
	case vars.Wdouble:
		eval := vars.NewEvaluator(s.program.vars)
		n, err := eval.Numeric(inst.expr)
		if err != nil {
			return err
		}
		s.program.vars.Set(inst.key, n, vars.Wdouble)
		return nil
	default: // vars.Wbool
		eval := vars.NewEvaluator(s.program.vars)
		b, err := eval.Bool(inst.expr)
		if err != nil {
			return err
		}
		s.program.vars.Set(inst.key, b, vars.Wbool)
		return nil
	}
}

// Run executes the program until halt, end of program, a runtime error, a
// pending feedback, or the iteration budget runs out. At most maxIterations
// instruction dispatches are performed. Call results are ignored, failing
// ones included; only runtime errors stop the run with a failure.
func (p *Program) Run(eng *engine.Engine, maxIterations int) engine.CommandResult {
	s := NewStepper(p, eng)
	for i := 0; i < maxIterations; i++ {
		if s.Finished() {
			return engine.Ok("Script completed")
		}
		res := s.ExecuteNext()
		if res.RequiresConfirmation {
			return res
		}
		if s.runtimeErr {
			return res
		}
	}
	if s.Finished() {
		return engine.Ok("Script completed")
	}
	return engine.Fail("Iteration limit reached")
}
