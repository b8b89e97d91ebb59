// Package syntax reads source programs into the tree consumed by package tac.
package syntax

import (
	"fmt"
	"strings"
)

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

// Definition of token types
const (
	// Special tokens
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT = "IDENT" // x, Color, _tmp
	INT   = "INT"   // 12345

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"

	LT     = "<"
	GT     = ">"
	EQ     = "=="
	NOT_EQ = "!="
	LE     = "<="
	GE     = ">="

	AND = "&&"
	OR  = "||"

	// Delimiters
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"

	// Keywords
	NUM    = "NUM"
	BOOL   = "BOOL"
	ENUM   = "ENUM"
	IF     = "IF"
	ELSE   = "ELSE"
	WHILE  = "WHILE"
	FOR    = "FOR"
	SWITCH = "SWITCH"
	CASE   = "CASE"
	BREAK  = "BREAK"
	TRUE   = "TRUE"
	FALSE  = "FALSE"
)

var keywords = map[string]TokenType{
	"num":    NUM,
	"bool":   BOOL,
	"enum":   ENUM,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"switch": SWITCH,
	"case":   CASE,
	"break":  BREAK,
	"true":   TRUE,
	"false":  FALSE,
}

// ErrorList collects front-end errors in the order they are found.
type ErrorList struct {
	errs []string
}

func (e *ErrorList) Add(line int, format string, args ...any) {
	e.errs = append(e.errs, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

func (e *ErrorList) HasErrors() bool {
	return len(e.errs) > 0
}

func (e *ErrorList) Len() int {
	return len(e.errs)
}

func (e *ErrorList) String() string {
	return strings.Join(e.errs, "\n")
}

// Err returns the collected errors as one error, or nil.
func (e *ErrorList) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return fmt.Errorf("%s", e.String())
}

// Lexer splits source text into tokens. The input must end with a 0 byte;
// NewLexer appends one if it is missing.
type Lexer struct {
	input []byte
	pos   int
	line  int

	// Current token
	CurrTokenType TokenType
	CurrLiteral   string
	CurrIntValue  int64 // only meaningful when CurrTokenType == INT
	CurrLine      int

	Errors ErrorList
}

// NewLexer creates a lexer over input. Call NextToken to load the first
// token.
func NewLexer(input []byte) *Lexer {
	if len(input) == 0 || input[len(input)-1] != 0 {
		input = append(append([]byte{}, input...), 0)
	}
	return &Lexer{input: input, line: 1}
}

// NextToken scans the next token into the Curr fields.
// Call repeatedly until CurrTokenType == EOF.
func (l *Lexer) NextToken() {
	l.skipWhitespaceAndComments()

	c := l.input[l.pos]
	l.CurrIntValue = 0
	l.CurrLine = l.line

	two := func(second byte, double, single TokenType) {
		if l.input[l.pos+1] == second {
			l.set(double, 2)
		} else {
			l.set(single, 1)
		}
	}

	switch c {
	case 0:
		l.CurrTokenType = EOF
		l.CurrLiteral = ""
	case '=':
		two('=', EQ, ASSIGN)
	case '!':
		two('=', NOT_EQ, BANG)
	case '<':
		two('=', LE, LT)
	case '>':
		two('=', GE, GT)
	case '&':
		two('&', AND, ILLEGAL)
	case '|':
		two('|', OR, ILLEGAL)
	case '+':
		l.set(PLUS, 1)
	case '-':
		l.set(MINUS, 1)
	case '*':
		l.set(ASTERISK, 1)
	case '/':
		l.set(SLASH, 1)
	case '%':
		l.set(PERCENT, 1)
	case ',':
		l.set(COMMA, 1)
	case ';':
		l.set(SEMICOLON, 1)
	case ':':
		l.set(COLON, 1)
	case '(':
		l.set(LPAREN, 1)
	case ')':
		l.set(RPAREN, 1)
	case '{':
		l.set(LBRACE, 1)
	case '}':
		l.set(RBRACE, 1)
	default:
		switch {
		case isLetter(c):
			lit := l.readIdentifier()
			l.CurrLiteral = lit
			if kw, ok := keywords[lit]; ok {
				l.CurrTokenType = kw
			} else {
				l.CurrTokenType = IDENT
			}
		case isDigit(c):
			l.CurrTokenType = INT
			l.CurrLiteral, l.CurrIntValue = l.readNumber()
		default:
			l.set(ILLEGAL, 1)
		}
	}

	if l.CurrTokenType == ILLEGAL {
		l.Errors.Add(l.CurrLine, "unexpected character %q", l.CurrLiteral)
	}
}

func (l *Lexer) set(t TokenType, width int) {
	l.CurrTokenType = t
	l.CurrLiteral = string(l.input[l.pos : l.pos+width])
	l.pos += width
}

// PeekToken returns the next token type without advancing the lexer.
func (l *Lexer) PeekToken() TokenType {
	saved := *l
	l.NextToken()
	next := l.CurrTokenType
	*l = saved
	return next
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		c := l.input[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '/' && l.input[l.pos+1] == '/':
			for l.input[l.pos] != '\n' && l.input[l.pos] != 0 {
				l.pos++
			}
		case c == '/' && l.input[l.pos+1] == '*':
			l.pos += 2 // skip /*
			for l.input[l.pos] != 0 && !(l.input[l.pos] == '*' && l.input[l.pos+1] == '/') {
				if l.input[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
			if l.input[l.pos] == 0 {
				l.Errors.Add(l.line, "unterminated block comment")
			} else {
				l.pos += 2 // skip */
			}
		default:
			return
		}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() (string, int64) {
	start := l.pos
	var val int64
	for isDigit(l.input[l.pos]) {
		val = val*10 + int64(l.input[l.pos]-'0')
		l.pos++
	}
	return string(l.input[start:l.pos]), val
}
