// Package interp reads and executes three-address listings.
package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// InstrKind identifies the form of a listing line.
type InstrKind int

const (
	InstrLabel   InstrKind = iota // _L0
	InstrCopy                     // x = y
	InstrUnary                    // x = - y
	InstrBinary                   // x = y + z
	InstrGoto                     // goto _L0
	InstrIf                       // if x < y goto _L0
	InstrIfFalse                  // ifFalse x < y goto _L0
)

// Instr is one parsed line.
type Instr struct {
	Kind  InstrKind
	Dest  string
	Op    string
	A, B  string
	Label string
	Line  int // 1-based
}

// Program is a parsed listing.
type Program struct {
	Instrs []Instr
	labels map[string]int
}

// Env holds variable values. Variables never assigned read as 0.
type Env map[string]int64

// Result is the outcome of a run.
type Result struct {
	Env   Env
	Trace []string // labels passed, in execution order
	Steps int
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
}

var relOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// Parse reads a listing. Blank lines are skipped.
func Parse(lines []string) (*Program, error) {
	p := &Program{labels: make(map[string]int)}
	for i, raw := range lines {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		in, err := parseLine(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		in.Line = i + 1
		if in.Kind == InstrLabel {
			if prev, dup := p.labels[in.Label]; dup {
				return nil, fmt.Errorf("line %d: label %s already defined on line %d", i+1, in.Label, p.Instrs[prev].Line)
			}
			p.labels[in.Label] = len(p.Instrs)
		}
		p.Instrs = append(p.Instrs, in)
	}

	for _, in := range p.Instrs {
		switch in.Kind {
		case InstrGoto, InstrIf, InstrIfFalse:
			if _, ok := p.labels[in.Label]; !ok {
				return nil, fmt.Errorf("line %d: jump to undefined label %s", in.Line, in.Label)
			}
		}
	}
	return p, nil
}

func parseLine(f []string) (Instr, error) {
	switch {
	case len(f) == 1:
		return Instr{Kind: InstrLabel, Label: f[0]}, nil

	case f[0] == "goto":
		if len(f) != 2 {
			return Instr{}, fmt.Errorf("malformed goto: %s", strings.Join(f, " "))
		}
		return Instr{Kind: InstrGoto, Label: f[1]}, nil

	case f[0] == "if" || f[0] == "ifFalse":
		if len(f) != 6 || f[4] != "goto" || !relOps[f[2]] {
			return Instr{}, fmt.Errorf("malformed conditional jump: %s", strings.Join(f, " "))
		}
		kind := InstrIf
		if f[0] == "ifFalse" {
			kind = InstrIfFalse
		}
		return Instr{Kind: kind, A: f[1], Op: f[2], B: f[3], Label: f[5]}, nil

	case len(f) >= 3 && f[1] == "=":
		switch len(f) {
		case 3:
			return Instr{Kind: InstrCopy, Dest: f[0], A: f[2]}, nil
		case 4:
			if f[2] != "-" && f[2] != "+" {
				return Instr{}, fmt.Errorf("unknown unary operator %q", f[2])
			}
			return Instr{Kind: InstrUnary, Dest: f[0], Op: f[2], A: f[3]}, nil
		case 5:
			if !binaryOps[f[3]] {
				return Instr{}, fmt.Errorf("unknown binary operator %q", f[3])
			}
			return Instr{Kind: InstrBinary, Dest: f[0], A: f[2], Op: f[3], B: f[4]}, nil
		}
	}
	return Instr{}, fmt.Errorf("unrecognized instruction: %s", strings.Join(f, " "))
}

// Run parses and executes a listing starting from env, which is not
// modified. It fails when more than maxSteps instructions execute.
func Run(lines []string, env Env, maxSteps int) (*Result, error) {
	p, err := Parse(lines)
	if err != nil {
		return nil, err
	}
	return p.Run(env, maxSteps)
}

// Run executes the program from its first line until it runs off the end.
func (p *Program) Run(env Env, maxSteps int) (*Result, error) {
	r := &Result{Env: make(Env, len(env))}
	for k, v := range env {
		r.Env[k] = v
	}

	pc := 0
	for pc < len(p.Instrs) {
		if r.Steps >= maxSteps {
			return r, fmt.Errorf("step limit %d exceeded at line %d", maxSteps, p.Instrs[pc].Line)
		}
		r.Steps++
		in := p.Instrs[pc]
		pc++

		switch in.Kind {
		case InstrLabel:
			r.Trace = append(r.Trace, in.Label)

		case InstrCopy:
			r.Env[in.Dest] = r.Env.value(in.A)

		case InstrUnary:
			v := r.Env.value(in.A)
			if in.Op == "-" {
				v = -v
			}
			r.Env[in.Dest] = v

		case InstrBinary:
			v, err := r.Env.binary(in)
			if err != nil {
				return r, fmt.Errorf("line %d: %w", in.Line, err)
			}
			r.Env[in.Dest] = v

		case InstrGoto:
			pc = p.labels[in.Label]

		case InstrIf, InstrIfFalse:
			if r.Env.compare(in) == (in.Kind == InstrIf) {
				pc = p.labels[in.Label]
			}
		}
	}
	return r, nil
}

func (e Env) value(operand string) int64 {
	if v, err := strconv.ParseInt(operand, 10, 64); err == nil {
		return v
	}
	return e[operand]
}

func (e Env) binary(in Instr) (int64, error) {
	a, b := e.value(in.A), e.value(in.B)
	switch in.Op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/", "%":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		if in.Op == "/" {
			return a / b, nil
		}
		return a % b, nil
	}
	return 0, fmt.Errorf("unknown binary operator %q", in.Op)
}

// compare evaluates the relation of a conditional jump. Parse only accepts
// the six relational operators.
func (e Env) compare(in Instr) bool {
	a, b := e.value(in.A), e.value(in.B)
	switch in.Op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

// Reached reports whether the run passed label l.
func (r *Result) Reached(l string) bool {
	for _, seen := range r.Trace {
		if seen == l {
			return true
		}
	}
	return false
}

// Format returns "name = value" lines sorted by name, leaving out names for
// which skip returns true.
func (e Env) Format(skip func(name string) bool) string {
	names := make([]string, 0, len(e))
	for name := range e {
		if skip != nil && skip(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s = %d\n", name, e[name])
	}
	return sb.String()
}

// ParseEnv reads "name = value" lines, the format written by Format.
func ParseEnv(text string) (Env, error) {
	env := make(Env)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected name = value", i+1)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		env[strings.TrimSpace(name)] = v
	}
	return env, nil
}
