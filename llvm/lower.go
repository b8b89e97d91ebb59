// Package llvm lowers a three-address listing to LLVM IR.
//
// Every variable and temporary becomes an i64 stack slot in the entry block,
// initialized to 0. Each listing label starts a basic block, conditional
// jumps become icmp and br pairs, and the program is the body of
// `i32 @main()`.
package llvm

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/lekdel21/log3210-tp3/interp"
)

var predicates = map[string]enum.IPred{
	"==": enum.IPredEQ,
	"!=": enum.IPredNE,
	"<":  enum.IPredSLT,
	"<=": enum.IPredSLE,
	">":  enum.IPredSGT,
	">=": enum.IPredSGE,
}

type lowerer struct {
	fn     *ir.Func
	cur    *ir.Block
	slots  map[string]*ir.InstAlloca
	blocks map[string]*ir.Block
	fresh  int
}

// Lower translates a listing into a module with a single main function.
func Lower(lines []string) (*ir.Module, error) {
	prog, err := interp.Parse(lines)
	if err != nil {
		return nil, err
	}

	m := ir.NewModule()
	l := &lowerer{
		fn:     m.NewFunc("main", types.I32),
		slots:  make(map[string]*ir.InstAlloca),
		blocks: make(map[string]*ir.Block),
	}
	entry := l.fn.NewBlock("entry")
	for _, name := range variables(prog) {
		slot := entry.NewAlloca(types.I64)
		slot.SetName(name + ".addr")
		entry.NewStore(constant.NewInt(types.I64, 0), slot)
		l.slots[name] = slot
	}
	body := l.newBlock("body")
	entry.NewBr(body)
	l.place(body)

	for _, in := range prog.Instrs {
		if err := l.instr(in); err != nil {
			return nil, fmt.Errorf("line %d: %w", in.Line, err)
		}
	}
	if l.cur.Term == nil {
		l.cur.NewRet(constant.NewInt(types.I32, 0))
	}
	return m, nil
}

// Emit lowers a listing and returns the module as LLVM assembly.
func Emit(lines []string) (string, error) {
	m, err := Lower(lines)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// variables lists every name written or read by the listing, in order of
// first appearance.
func variables(prog *interp.Program) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || isConst(s) || seen[s] {
			return
		}
		seen[s] = true
		names = append(names, s)
	}
	for _, in := range prog.Instrs {
		add(in.Dest)
		add(in.A)
		add(in.B)
	}
	return names
}

func isConst(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func (l *lowerer) instr(in interp.Instr) error {
	switch in.Kind {
	case interp.InstrLabel:
		target := l.block(in.Label)
		if l.cur.Term == nil {
			l.cur.NewBr(target)
		}
		l.place(target)

	case interp.InstrCopy:
		l.cur.NewStore(l.operand(in.A), l.slots[in.Dest])

	case interp.InstrUnary:
		v := l.operand(in.A)
		if in.Op == "-" {
			v = l.cur.NewSub(constant.NewInt(types.I64, 0), v)
		}
		l.cur.NewStore(v, l.slots[in.Dest])

	case interp.InstrBinary:
		a, b := l.operand(in.A), l.operand(in.B)
		var v value.Value
		switch in.Op {
		case "+":
			v = l.cur.NewAdd(a, b)
		case "-":
			v = l.cur.NewSub(a, b)
		case "*":
			v = l.cur.NewMul(a, b)
		case "/":
			v = l.cur.NewSDiv(a, b)
		case "%":
			v = l.cur.NewSRem(a, b)
		default:
			return fmt.Errorf("unknown binary operator %q", in.Op)
		}
		l.cur.NewStore(v, l.slots[in.Dest])

	case interp.InstrGoto:
		l.cur.NewBr(l.block(in.Label))
		l.place(l.newBlock(""))

	case interp.InstrIf, interp.InstrIfFalse:
		pred, ok := predicates[in.Op]
		if !ok {
			return fmt.Errorf("unknown comparison operator %q", in.Op)
		}
		cond := l.cur.NewICmp(pred, l.operand(in.A), l.operand(in.B))
		target, next := l.block(in.Label), l.newBlock("")
		if in.Kind == interp.InstrIf {
			l.cur.NewCondBr(cond, target, next)
		} else {
			l.cur.NewCondBr(cond, next, target)
		}
		l.place(next)

	default:
		return fmt.Errorf("unknown instruction kind %d", in.Kind)
	}
	return nil
}

func (l *lowerer) operand(s string) value.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return constant.NewInt(types.I64, n)
	}
	return l.cur.NewLoad(types.I64, l.slots[s])
}

// block returns the block of a listing label, creating it on first use.
// It is added to the function once its label is reached.
func (l *lowerer) block(label string) *ir.Block {
	if b, ok := l.blocks[label]; ok {
		return b
	}
	b := ir.NewBlock(label)
	l.blocks[label] = b
	return b
}

func (l *lowerer) newBlock(name string) *ir.Block {
	if name == "" {
		name = "cont." + strconv.Itoa(l.fresh)
		l.fresh++
	}
	return ir.NewBlock(name)
}

// place appends b to the function and makes it current. The block after an
// unconditional jump has no predecessor, which LLVM accepts.
func (l *lowerer) place(b *ir.Block) {
	b.Parent = l.fn
	l.fn.Blocks = append(l.fn.Blocks, b)
	l.cur = b
}
