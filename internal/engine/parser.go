package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// ExtensionCall is one parsed extension invocation in a chain.
type ExtensionCall struct {
	Namespace string
	Name      string
	Args      []string
}

// InvocationPlan is the parsed form of an input line. The first call in the
// chain is the command invocation; every subsequent call is an extension.
type InvocationPlan struct {
	Namespace  string
	Command    string
	Args       []string
	Extensions []ExtensionCall
}

// Parse parses `namespace:command(arg, arg).ext1(…).ext2(…)` into a plan.
// Argument order is preserved; zero arguments parse to an empty vector.
func Parse(input string) (*InvocationPlan, error) {
	s := &scanner{src: []rune(input)}
	ns, name, args, err := s.call()
	if err != nil {
		return nil, err
	}
	plan := &InvocationPlan{Namespace: ns, Command: name, Args: args}
	for {
		s.skipSpace()
		if s.eof() {
			return plan, nil
		}
		if s.cur() != '.' {
			return nil, fmt.Errorf("unexpected character %q", s.cur())
		}
		s.pos++
		ens, ename, eargs, err := s.call()
		if err != nil {
			return nil, err
		}
		plan.Extensions = append(plan.Extensions, ExtensionCall{Namespace: ens, Name: ename, Args: eargs})
	}
}

// Render writes the plan back in canonical form. Parsing the rendered text
// yields an equal plan.
func (p *InvocationPlan) Render() string {
	var b strings.Builder
	writeCall(&b, p.Namespace, p.Command, p.Args)
	for _, ext := range p.Extensions {
		b.WriteByte('.')
		writeCall(&b, ext.Namespace, ext.Name, ext.Args)
	}
	return b.String()
}

func writeCall(b *strings.Builder, namespace, name string, args []string) {
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteByte(':')
	}
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(renderArg(a))
	}
	b.WriteByte(')')
}

func renderArg(a string) string {
	if a == "" || strings.ContainsAny(a, `,():"\`+"\n\t") ||
		a != strings.TrimSpace(a) {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
		return `"` + r.Replace(a) + `"`
	}
	return a
}

type scanner struct {
	src []rune
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }
func (s *scanner) cur() rune { return s.src[s.pos] }

func (s *scanner) skipSpace() {
	for !s.eof() && unicode.IsSpace(s.cur()) {
		s.pos++
	}
}

// call parses [ident ":"] ident "(" [args] ")".
func (s *scanner) call() (namespace, name string, args []string, err error) {
	s.skipSpace()
	name, err = s.ident()
	if err != nil {
		return "", "", nil, err
	}
	s.skipSpace()
	if !s.eof() && s.cur() == ':' {
		s.pos++
		s.skipSpace()
		namespace = name
		name, err = s.ident()
		if err != nil {
			return "", "", nil, err
		}
		s.skipSpace()
	}
	if s.eof() || s.cur() != '(' {
		return "", "", nil, fmt.Errorf("expected '(' after %q", name)
	}
	s.pos++
	args, err = s.args()
	if err != nil {
		return "", "", nil, err
	}
	return namespace, name, args, nil
}

func (s *scanner) ident() (string, error) {
	start := s.pos
	for !s.eof() {
		c := s.cur()
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-' {
			s.pos++
			continue
		}
		break
	}
	if s.pos == start {
		if s.eof() {
			return "", fmt.Errorf("empty identifier at end of input")
		}
		return "", fmt.Errorf("empty identifier before %q", s.cur())
	}
	return string(s.src[start:s.pos]), nil
}

// args parses up to and including the closing ')'. Zero arguments yield an
// empty vector, never [""].
func (s *scanner) args() ([]string, error) {
	args := []string{}
	s.skipSpace()
	if s.eof() {
		return nil, fmt.Errorf("unmatched '('")
	}
	if s.cur() == ')' {
		s.pos++
		return args, nil
	}
	for {
		arg, err := s.arg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		s.skipSpace()
		if s.eof() {
			return nil, fmt.Errorf("unmatched '('")
		}
		switch s.cur() {
		case ',':
			s.pos++
		case ')':
			s.pos++
			return args, nil
		default:
			return nil, fmt.Errorf("unexpected character %q in argument list", s.cur())
		}
	}
}

func (s *scanner) arg() (string, error) {
	s.skipSpace()
	if s.eof() {
		return "", fmt.Errorf("unmatched '('")
	}
	if s.cur() == '"' {
		return s.quoted()
	}
	start := s.pos
	for !s.eof() {
		switch s.cur() {
		case ',', ')':
			arg := strings.TrimSpace(string(s.src[start:s.pos]))
			if arg == "" {
				return "", fmt.Errorf("empty argument")
			}
			return arg, nil
		case '(', ':':
			// Barewords exclude these; quote the argument instead.
			return "", fmt.Errorf("unexpected character %q in argument", s.cur())
		}
		s.pos++
	}
	return "", fmt.Errorf("unmatched '('")
}

func (s *scanner) quoted() (string, error) {
	s.pos++ // opening quote
	var b strings.Builder
	for {
		if s.eof() {
			return "", fmt.Errorf("unterminated string")
		}
		c := s.cur()
		s.pos++
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if s.eof() {
				return "", fmt.Errorf("unterminated string")
			}
			esc := s.cur()
			s.pos++
			switch esc {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return "", fmt.Errorf("invalid escape %q", string(esc))
			}
		default:
			b.WriteRune(c)
		}
	}
}
