package syntax

import (
	"testing"

	"github.com/nalgeon/be"
)

func lexInput(input string) *Lexer {
	l := NewLexer([]byte(input))
	l.NextToken()
	return l
}

func TestIntLiteral(t *testing.T) {
	l := lexInput("12345")
	be.Equal(t, l.CurrTokenType, INT)
	be.Equal(t, l.CurrLiteral, "12345")
	be.Equal(t, l.CurrIntValue, int64(12345))
}

func TestIdentifierAndKeywords(t *testing.T) {
	l := lexInput("Color")
	be.Equal(t, l.CurrTokenType, IDENT)
	be.Equal(t, l.CurrLiteral, "Color")

	tests := []struct {
		input string
		typ   TokenType
	}{
		{"num", NUM},
		{"bool", BOOL},
		{"enum", ENUM},
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"for", FOR},
		{"switch", SWITCH},
		{"case", CASE},
		{"break", BREAK},
		{"true", TRUE},
		{"false", FALSE},
		{"numb", IDENT},
		{"_x1", IDENT},
	}
	for _, tt := range tests {
		be.Equal(t, lexInput(tt.input).CurrTokenType, tt.typ)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"=", ASSIGN},
		{"==", EQ},
		{"!", BANG},
		{"!=", NOT_EQ},
		{"<", LT},
		{"<=", LE},
		{">", GT},
		{">=", GE},
		{"&&", AND},
		{"||", OR},
		{"+", PLUS},
		{"-", MINUS},
		{"*", ASTERISK},
		{"/", SLASH},
		{"%", PERCENT},
		{",", COMMA},
		{";", SEMICOLON},
		{":", COLON},
		{"(", LPAREN},
		{")", RPAREN},
		{"{", LBRACE},
		{"}", RBRACE},
	}
	for _, tt := range tests {
		l := lexInput(tt.input)
		be.Equal(t, l.CurrTokenType, tt.typ)
		be.Equal(t, l.CurrLiteral, tt.input)
	}
}

func TestCommentsAndLines(t *testing.T) {
	l := lexInput("// one\n/* two\nthree */ x\n y")
	be.Equal(t, l.CurrTokenType, IDENT)
	be.Equal(t, l.CurrLiteral, "x")
	be.Equal(t, l.CurrLine, 3)

	l.NextToken()
	be.Equal(t, l.CurrLiteral, "y")
	be.Equal(t, l.CurrLine, 4)

	l.NextToken()
	be.Equal(t, l.CurrTokenType, EOF)
	be.True(t, !l.Errors.HasErrors())
}

func TestPeekTokenDoesNotAdvance(t *testing.T) {
	l := lexInput("Color c;")
	be.Equal(t, l.PeekToken(), IDENT)
	be.Equal(t, l.CurrLiteral, "Color")
	l.NextToken()
	be.Equal(t, l.CurrLiteral, "c")
	be.Equal(t, l.PeekToken(), SEMICOLON)
}

func TestLexerErrors(t *testing.T) {
	l := lexInput("a & b")
	l.NextToken()
	be.Equal(t, l.CurrTokenType, ILLEGAL)
	be.Equal(t, l.Errors.String(), `line 1: unexpected character "&"`)

	l = lexInput("x /* open")
	l.NextToken()
	be.Equal(t, l.CurrTokenType, EOF)
	be.Err(t, l.Errors.Err(), "line 1: unterminated block comment")

	l = lexInput("@")
	be.Equal(t, l.Errors.Len(), 1)
}
