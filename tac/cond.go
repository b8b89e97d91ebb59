package tac

import (
	"fmt"

	"github.com/lekdel21/log3210-tp3/ast"
)

var relOps = map[string]bool{
	"==": true, "!=": true,
	"<": true, "<=": true,
	">": true, ">=": true,
}

// cond translates a boolean expression into jumps: control leaves for
// tg.True when the expression holds and for tg.False otherwise. A Fall side
// gets no jump; the code emitted after cond is its destination.
func (t *Translator) cond(node *ast.Node, tg Targets) {
	if node == nil {
		fail(ErrMalformed, "missing condition")
	}
	switch node.Kind {
	case ast.NodeExpr, ast.NodeValue:
		arity(node, 1)
		t.cond(node.Children[0], tg)

	case ast.NodeBoolExpr:
		if len(node.Children) == 0 {
			fail(ErrMalformed, "%s has no operands", node.Kind)
		}
		operators(node)
		t.logical(node.Children, node.Ops, tg)

	case ast.NodeNotExpr:
		arity(node, 1)
		for _, op := range node.Ops {
			if op != "!" {
				fail(ErrMalformed, "unknown negation operator %q", op)
			}
		}
		if len(node.Ops)%2 == 1 {
			tg = tg.Swap()
		}
		t.cond(node.Children[0], tg)

	case ast.NodeCompExpr:
		switch len(node.Children) {
		case 1:
			operators(node)
			t.cond(node.Children[0], tg)
		case 2:
			if !relOps[node.Op] {
				fail(ErrMalformed, "unknown comparison operator %q", node.Op)
			}
			left := t.arith(node.Children[0])
			right := t.arith(node.Children[1])
			t.test(fmt.Sprintf("%s %s %s", left, node.Op, right), tg)
		default:
			fail(ErrMalformed, "%s has %d operands, at most 2 allowed", node.Kind, len(node.Children))
		}

	case ast.NodeAddExpr, ast.NodeMulExpr:
		if len(node.Children) != 1 {
			fail(ErrKindMismatch, "arithmetic expression used as a condition")
		}
		operators(node)
		t.cond(node.Children[0], tg)

	case ast.NodeUnaExpr:
		if len(node.Ops) != 0 {
			fail(ErrKindMismatch, "arithmetic expression used as a condition")
		}
		arity(node, 1)
		t.cond(node.Children[0], tg)

	case ast.NodeBoolLiteral:
		if node.Bool && !tg.True.IsFall() {
			t.emit("goto %s", tg.True.label)
		} else if !node.Bool && !tg.False.IsFall() {
			t.emit("goto %s", tg.False.label)
		}

	case ast.NodeIdent:
		if _, ok := t.reg.Lookup(node.Name); !ok {
			if _, ok := t.reg.LookupOrdinal(node.Name); ok {
				fail(ErrKindMismatch, "enum member '%s' used as a condition", node.Name)
			}
		}
		if kind := t.reg.Kind(node.Name); kind != Bool {
			fail(ErrKindMismatch, "%s '%s' used as a condition", kind, node.Name)
		}
		t.test(node.Name+" == 1", tg)

	case ast.NodeInteger:
		fail(ErrKindMismatch, "integer used as a condition")

	default:
		fail(ErrMalformed, "unexpected %s in condition", node.Kind)
	}
}

// logical translates operands joined by && and ||, grouping to the left:
// a || b && c is ((a || b) && c) at this level.
func (t *Translator) logical(operands []*ast.Node, ops []string, tg Targets) {
	n := len(operands)
	if n == 1 {
		t.cond(operands[0], tg)
		return
	}
	left, leftOps := operands[:n-1], ops[:n-2]
	right := operands[n-1]

	switch ops[n-2] {
	case "&&":
		// The left side falls into the right one when true.
		sub := Targets{True: t.entry(), False: tg.False}
		if tg.False.IsFall() {
			sub.False = To(t.names.NewLabel())
		}
		t.logical(left, leftOps, sub)
		t.place(sub.True)
		t.cond(right, tg)
		if tg.False.IsFall() {
			t.place(sub.False)
		}

	case "||":
		// The left side falls into the right one when false.
		sub := Targets{True: tg.True, False: t.entry()}
		if tg.True.IsFall() {
			sub.True = To(t.names.NewLabel())
		}
		t.logical(left, leftOps, sub)
		t.place(sub.False)
		t.cond(right, tg)
		if tg.True.IsFall() {
			t.place(sub.True)
		}

	default:
		fail(ErrMalformed, "unknown logical operator %q", ops[n-2])
	}
}

// test emits the conditional jumps for a comparison.
func (t *Translator) test(comparison string, tg Targets) {
	switch {
	case !tg.True.IsFall() && !tg.False.IsFall():
		t.emit("if %s goto %s", comparison, tg.True.label)
		t.emit("goto %s", tg.False.label)
	case !tg.True.IsFall():
		t.emit("if %s goto %s", comparison, tg.True.label)
	case !tg.False.IsFall():
		t.emit("ifFalse %s goto %s", comparison, tg.False.label)
	}
}
