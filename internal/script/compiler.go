// Package script compiles line-oriented weaver scripts into instruction
// lists and steps them against an engine.
package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/weavercmd/weaver/internal/vars"
)

type opCode int

const (
	opCall opCode = iota
	opAssign
	opIfGoto
	opGoto
	opHalt
)

// instruction is one compiled step. Labels are elided after indexing; jump
// targets are resolved to instruction indexes in the second pass.
type instruction struct {
	op        opCode
	text      string // opCall: verbatim invocation line
	key       string // opAssign
	expr      string // opAssign, opIfGoto
	valueType vars.Type
	label     string // opIfGoto, opGoto: target name, kept for diagnostics
	target    int
	line      int // 1-based source line
}

// Program is a compiled script plus the registry assignments mutate.
type Program struct {
	instructions []instruction
	labels       map[string]int
	vars         *vars.Registry
}

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Compile translates source in two passes: split into instructions recording
// label positions, then resolve every jump target. Blank lines and lines
// starting with '#' are comments. The registry is captured so the stepper can
// mutate it directly for assignments.
func Compile(source string, reg *vars.Registry) (*Program, error) {
	p := &Program{labels: make(map[string]int), vars: reg}

	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasSuffix(line, ":") && labelPattern.MatchString(strings.TrimSuffix(line, ":")):
			name := strings.TrimSuffix(line, ":")
			if _, dup := p.labels[name]; dup {
				return nil, fmt.Errorf("Compile error: duplicate label %q (line %d)", name, lineNo)
			}
			p.labels[name] = len(p.instructions)

		case strings.EqualFold(line, "halt"):
			p.instructions = append(p.instructions, instruction{op: opHalt, line: lineNo})

		case hasKeyword(line, "goto"):
			name := strings.TrimSpace(line[len("goto"):])
			if !labelPattern.MatchString(name) {
				return nil, fmt.Errorf("Compile error: invalid goto target %q (line %d)", name, lineNo)
			}
			p.instructions = append(p.instructions, instruction{op: opGoto, label: name, line: lineNo})

		case hasKeyword(line, "if"):
			inst, err := parseIfGoto(line, lineNo)
			if err != nil {
				return nil, err
			}
			p.instructions = append(p.instructions, inst)

		case hasKeyword(line, "let"):
			inst, err := parseLet(line, lineNo)
			if err != nil {
				return nil, err
			}
			p.instructions = append(p.instructions, inst)

		default:
			p.instructions = append(p.instructions, instruction{op: opCall, text: line, line: lineNo})
		}
	}

	for i := range p.instructions {
		inst := &p.instructions[i]
		if inst.op != opGoto && inst.op != opIfGoto {
			continue
		}
		target, ok := p.labels[inst.label]
		if !ok {
			return nil, fmt.Errorf("Compile error: unknown label %q (line %d)", inst.label, inst.line)
		}
		inst.target = target
	}
	return p, nil
}

// Len reports the number of compiled instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// hasKeyword reports whether line starts with word followed by whitespace.
func hasKeyword(line, word string) bool {
	if !strings.HasPrefix(line, word) {
		return false
	}
	rest := line[len(word):]
	return rest != "" && (rest[0] == ' ' || rest[0] == '\t')
}

// parseIfGoto splits "if <boolExpr> goto <label>" on the last goto keyword so
// the expression itself may contain the word.
func parseIfGoto(line string, lineNo int) (instruction, error) {
	body := strings.TrimSpace(line[len("if"):])
	idx := strings.LastIndex(body, " goto ")
	if idx < 0 {
		return instruction{}, fmt.Errorf("Compile error: expected \"if <expr> goto <label>\" (line %d)", lineNo)
	}
	expr := strings.TrimSpace(body[:idx])
	name := strings.TrimSpace(body[idx+len(" goto "):])
	if expr == "" {
		return instruction{}, fmt.Errorf("Compile error: empty condition (line %d)", lineNo)
	}
	if !labelPattern.MatchString(name) {
		return instruction{}, fmt.Errorf("Compile error: invalid goto target %q (line %d)", name, lineNo)
	}
	return instruction{op: opIfGoto, expr: expr, label: name, line: lineNo}, nil
}

// parseLet splits "let <key> : <type> = <expression>".
func parseLet(line string, lineNo int) (instruction, error) {
	body := strings.TrimSpace(line[len("let"):])
	eq := strings.Index(body, "=")
	if eq < 0 {
		return instruction{}, fmt.Errorf("Compile error: expected \"let <key> : <type> = <expression>\" (line %d)", lineNo)
	}
	head := strings.TrimSpace(body[:eq])
	expr := strings.TrimSpace(body[eq+1:])
	colon := strings.Index(head, ":")
	if colon < 0 {
		return instruction{}, fmt.Errorf("Compile error: missing type in let (line %d)", lineNo)
	}
	key := strings.TrimSpace(head[:colon])
	typeName := strings.TrimSpace(head[colon+1:])
	if key == "" {
		return instruction{}, fmt.Errorf("Compile error: empty key in let (line %d)", lineNo)
	}
	if expr == "" {
		return instruction{}, fmt.Errorf("Compile error: empty expression in let (line %d)", lineNo)
	}
	t, err := vars.ParseType(typeName)
	if err != nil {
		return instruction{}, fmt.Errorf("Compile error: %v (line %d)", err, lineNo)
	}
	return instruction{op: opAssign, key: key, expr: expr, valueType: t, line: lineNo}, nil
}
