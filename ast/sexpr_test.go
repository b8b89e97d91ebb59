package ast

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestToSExpr(t *testing.T) {
	root := New(NodeProgram,
		Declare(TypeNum, "x"),
		DeclareEnumVar("Color", "c"),
		Assign("x", New(NodeExpr,
			WithOps(NodeAddExpr, []string{"+"}, Int(2), WithOps(NodeUnaExpr, []string{"-"}, Ident("y"))))),
		New(NodeIf, New(NodeExpr, Compare("<", Ident("x"), Int(3))), New(NodeBreak)),
		Assign("b", BoolLit(true)))

	be.Equal(t, ToSExpr(root), `(program (decl "num" (ident "x")) (decl (ident "Color") (ident "c")) `+
		`(assign (ident "x") (expr (add "+" (integer 2) (unary "-" (ident "y"))))) `+
		`(if (expr (comp "<" (ident "x") (integer 3))) (break)) `+
		`(assign (ident "b") (boolean true)))`)
	be.Equal(t, ToSExpr(nil), "()")
}

func TestParseSExprRoundTrip(t *testing.T) {
	root := New(NodeProgram,
		Declare(TypeBool, "b"),
		New(NodeEnumDef, Ident("Color"), Ident("Red"), Ident("Green")),
		Assign("b", New(NodeExpr, WithOps(NodeBoolExpr, []string{"&&", "||"},
			Ident("b"),
			WithOps(NodeNotExpr, []string{"!", "!"}, Ident("b")),
			BoolLit(false)))),
		New(NodeFor,
			Assign("i", Int(0)),
			Compare(">=", Ident("i"), Int(-4)),
			Assign("i", WithOps(NodeMulExpr, []string{"%"}, Ident("i"), Int(7))),
			New(NodeBlock)))

	text := ToSExpr(root)
	parsed, err := ParseSExpr(text)
	be.Err(t, err, nil)
	be.Equal(t, parsed, root)
	be.Equal(t, ToSExpr(parsed), text)
}

func TestParseSExprShorthand(t *testing.T) {
	got, err := ParseSExpr(`(assign x (add "-" 10 y))`)
	be.Err(t, err, nil)
	be.Equal(t, got, Assign("x", WithOps(NodeAddExpr, []string{"-"}, Int(10), Ident("y"))))

	got, err = ParseSExpr(`(not "!" false)`)
	be.Err(t, err, nil)
	be.Equal(t, got, WithOps(NodeNotExpr, []string{"!"}, BoolLit(false)))
}

func TestParseSExprErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`(assign (ident "x")`, "unclosed"},
		{`(frobnicate)`, `unknown node "frobnicate"`},
		{`("program")`, "expected node name"},
		{`(ident x)`, "ident expects one string"},
		{`(integer "1")`, "integer expects one integer"},
		{`(boolean maybe)`, "boolean expects true or false"},
		{`(decl "num" "bool" (ident "x"))`, "decl takes at most one type"},
		{`(comp "<" ">" a b)`, "comp takes at most one operator"},
		{`(block "x")`, "block takes no strings"},
		{`(program "s")`, "program takes no strings"},
		{`"x"`, `unexpected "x" in syntax tree`},
	}
	for _, test := range tests {
		_, err := ParseSExpr(test.input)
		be.Err(t, err, test.want)
	}
}

func TestUnwrap(t *testing.T) {
	x := Ident("x")
	be.Equal(t, Unwrap(New(NodeExpr, New(NodeAddExpr, New(NodeValue, x)))), x)

	neg := WithOps(NodeUnaExpr, []string{"-"}, x)
	be.Equal(t, Unwrap(New(NodeExpr, neg)), neg)

	cmp := Compare("==", x, Int(1))
	be.Equal(t, Unwrap(cmp), cmp)
	be.True(t, Unwrap(nil) == nil)
	be.True(t, Unwrap(New(NodeExpr, nil)) == nil)

	// Operator levels with a stray operator are not pass-through.
	add := WithOps(NodeAddExpr, []string{"+"}, x)
	be.Equal(t, Unwrap(New(NodeExpr, add)), add)
	lone := &Node{Kind: NodeCompExpr, Op: "<", Children: []*Node{x}}
	be.Equal(t, Unwrap(lone), lone)
}
