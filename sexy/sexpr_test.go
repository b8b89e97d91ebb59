package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

// Each atom prints back exactly as written.
func TestParseAtoms(t *testing.T) {
	tests := []struct {
		input string
		typ   NodeType
		text  string
	}{
		{"assign", NodeSymbol, "assign"},
		{"temp_prefix", NodeSymbol, "temp_prefix"},
		{"enum-def", NodeSymbol, "enum-def"},
		{"-", NodeSymbol, "-"},
		{"+", NodeSymbol, "+"},
		{`"num"`, NodeString, "num"},
		{`"<="`, NodeString, "<="},
		{`""`, NodeString, ""},
		{`"say \"hi\""`, NodeString, `say "hi"`},
		{`"a\\b"`, NodeString, `a\b`},
		{"42", NodeInteger, "42"},
		{"0", NodeInteger, "0"},
		{"-123", NodeInteger, "-123"},
		{"+456", NodeInteger, "+456"},
	}

	for _, test := range tests {
		node, err := Parse(test.input)
		be.Err(t, err, nil)
		be.Equal(t, node.Type, test.typ)
		be.Equal(t, node.Text, test.text)
		be.Equal(t, node.String(), test.input)
		be.True(t, node.IsAtom())
	}
}

func TestParseEllipsis(t *testing.T) {
	result, err := Parse("...")
	be.Err(t, err, nil)

	be.Equal(t, result.Type, NodeEllipsis)
	be.Equal(t, result.String(), "...")
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"()", "()"},
		{"(hello)", "(hello)"},
		{"(1 2 3)", "(1 2 3)"},
		{`(add "+" 1 2)`, `(add "+" 1 2)`},
		{"(nested (list here))", "(nested (list here))"},
		{"(  spaced\n\t( out ) )", "(spaced (out))"},
		{"(program ...)", "(program ...)"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeList)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestHead(t *testing.T) {
	list, err := Parse(`(comp "<" a b)`)
	be.Err(t, err, nil)
	be.Equal(t, list.Head(), "comp")
	be.Equal(t, len(list.Items), 4)

	be.Equal(t, NewList().Head(), "")
	be.Equal(t, NewList(NewInteger("1")).Head(), "")
	be.Equal(t, NewSymbol("x").Head(), "")
}

func TestRoundTripParsing(t *testing.T) {
	inputs := []string{
		`(program (decl "num" (ident "x")) (assign (ident "x") (expr (integer 5))))`,
		`(bool "&&" "||" a b c)`,
		`(unary "-" "+" (integer -3))`,
		`(switch (ident "c") (case (ident "Red") (block) (break)))`,
	}

	for _, input := range inputs {
		first, err := Parse(input)
		be.Err(t, err, nil)
		second, err := Parse(first.String())
		be.Err(t, err, nil)
		be.Equal(t, second.String(), first.String())
		be.Equal(t, first.String(), input)
	}
}

func TestParseComments(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"; comment\nhello", "hello"},
		{"hello ; trailing comment", "hello"},
		{"; tree for x = 1\n(assign x 1)", "(assign x 1)"},
		{"(test ; inline comment\n world)", "(test world)"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"unterminated string`, "unterminated string"},
		{`"invalid \escape"`, "invalid escape sequence: \\e"},
		{".", "unexpected character '.'"},
		{"(1 2 . 4)", "unexpected character '.'"},
		{"@", "unexpected character '@'"},
		{"%", "unexpected character '%'"},
		{"&", "unexpected character '&'"},
		{"[1]", "unexpected character '['"},
		{"{a: 1}", "unexpected character '{'"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, test.expected)
		be.True(t, result == nil)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(", "unclosed '('"},
		{"(hello", "unclosed '('"},
		{"(a (b)", "unclosed '('"},
		{")", "unexpected token: ')'"},
		{"", "unexpected token: EOF"},
		{"hello world", "expected EOF but got symbol"},
		{"42 extra", "expected EOF but got symbol"},
		{"(test) more", "expected EOF but got symbol"},
	}

	for _, test := range tests {
		_, err := Parse(test.input)
		be.Err(t, err, test.expected)
	}
}

func TestErrorOffsets(t *testing.T) {
	_, err := Parse("(a b) c")
	be.Err(t, err, "offset 6:")

	_, err = Parse("(a\n  @)")
	be.Err(t, err, "offset 5:")
}

func TestNodeTypeHelpers(t *testing.T) {
	be.True(t, NewSymbol("test").IsAtom())
	be.True(t, NewString("hello").IsAtom())
	be.True(t, NewInteger("42").IsAtom())
	be.True(t, (&Node{Type: NodeEllipsis}).IsAtom())
	be.True(t, !NewList(NewSymbol("test")).IsAtom())

	be.Equal(t, NodeList.String(), "list")
	be.Equal(t, NodeType(99).String(), "NodeType(99)")
}
