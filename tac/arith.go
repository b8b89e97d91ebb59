package tac

import (
	"strconv"

	"github.com/lekdel21/log3210-tp3/ast"
)

// arith translates a numeric expression and returns the address holding its
// value. Operands are translated left to right.
func (t *Translator) arith(node *ast.Node) Addr {
	if node == nil {
		fail(ErrMalformed, "missing expression")
	}
	switch node.Kind {
	case ast.NodeExpr, ast.NodeValue:
		arity(node, 1)
		return t.arith(node.Children[0])

	case ast.NodeAddExpr, ast.NodeMulExpr:
		switch len(node.Children) {
		case 1:
			operators(node)
			return t.arith(node.Children[0])
		case 2:
			op := binaryOp(node)
			left := t.arith(node.Children[0])
			right := t.arith(node.Children[1])
			tmp := t.names.NewTemp()
			t.emit("%s = %s %s %s", tmp, left, op, right)
			return tmp
		default:
			fail(ErrMalformed, "%s has %d operands, at most 2 allowed", node.Kind, len(node.Children))
		}

	case ast.NodeUnaExpr:
		arity(node, 1)
		addr := t.arith(node.Children[0])
		for i := len(node.Ops) - 1; i >= 0; i-- {
			tmp := t.names.NewTemp()
			t.emit("%s = %s %s", tmp, unaryOp(node.Ops[i]), addr)
			addr = tmp
		}
		return addr

	case ast.NodeBoolExpr, ast.NodeCompExpr:
		if len(node.Children) == 1 {
			operators(node)
			return t.arith(node.Children[0])
		}
		fail(ErrKindMismatch, "boolean expression used as a number")

	case ast.NodeNotExpr:
		if len(node.Ops) == 0 && len(node.Children) == 1 {
			return t.arith(node.Children[0])
		}
		fail(ErrKindMismatch, "boolean expression used as a number")

	case ast.NodeIdent:
		return t.operand(node.Name)

	case ast.NodeInteger:
		return Addr(strconv.FormatInt(node.Integer, 10))

	case ast.NodeBoolLiteral:
		if node.Bool {
			return "1"
		}
		return "0"

	default:
		fail(ErrMalformed, "unexpected %s in expression", node.Kind)
	}
	panic("unreachable")
}

// operand returns the address of an identifier used as a value. Enum
// members stand for their ordinal.
func (t *Translator) operand(name string) Addr {
	if kind, ok := t.reg.Lookup(name); ok {
		if kind == EnumType {
			fail(ErrKindMismatch, "enum type '%s' used as a value", name)
		}
		return Addr(name)
	}
	if ord, ok := t.reg.LookupOrdinal(name); ok {
		return Addr(strconv.Itoa(ord))
	}
	fail(ErrUndeclared, "variable '%s' used before declaration", name)
	panic("unreachable")
}

// assignArith translates expr and stores its value in dest. The last
// operation of expr writes dest directly instead of going through a
// temporary.
func (t *Translator) assignArith(dest string, expr *ast.Node) {
	node := ast.Unwrap(expr)
	if node == nil {
		fail(ErrMalformed, "missing expression")
	}
	switch {
	case (node.Kind == ast.NodeAddExpr || node.Kind == ast.NodeMulExpr) && len(node.Children) == 2:
		op := binaryOp(node)
		left := t.arith(node.Children[0])
		right := t.arith(node.Children[1])
		t.emit("%s = %s %s %s", dest, left, op, right)

	case node.Kind == ast.NodeUnaExpr && len(node.Ops) > 0:
		arity(node, 1)
		addr := t.arith(node.Children[0])
		for i := len(node.Ops) - 1; i > 0; i-- {
			tmp := t.names.NewTemp()
			t.emit("%s = %s %s", tmp, unaryOp(node.Ops[i]), addr)
			addr = tmp
		}
		t.emit("%s = %s %s", dest, unaryOp(node.Ops[0]), addr)

	default:
		t.emit("%s = %s", dest, t.arith(node))
	}
}

// operators checks that an operator level carries one operator per gap
// between its operands. A comparison carries its single operator in Op.
func operators(node *ast.Node) {
	if node.Kind == ast.NodeCompExpr {
		if len(node.Children) == 1 && node.Op != "" {
			fail(ErrMalformed, "%s with 1 operand has operator %q", node.Kind, node.Op)
		}
		return
	}
	if len(node.Ops) != len(node.Children)-1 {
		fail(ErrMalformed, "%s has %d operands but %d operators", node.Kind, len(node.Children), len(node.Ops))
	}
}

func binaryOp(node *ast.Node) string {
	if len(node.Ops) != 1 {
		fail(ErrMalformed, "%s with 2 operands expects 1 operator but has %d", node.Kind, len(node.Ops))
	}
	op := node.Ops[0]
	switch node.Kind {
	case ast.NodeAddExpr:
		if op == "+" || op == "-" {
			return op
		}
	case ast.NodeMulExpr:
		if op == "*" || op == "/" || op == "%" {
			return op
		}
	}
	fail(ErrMalformed, "operator %q not allowed in %s", op, node.Kind)
	panic("unreachable")
}

func unaryOp(op string) string {
	if op != "-" && op != "+" {
		fail(ErrMalformed, "unknown unary operator %q", op)
	}
	return op
}
