// Package sexy reads the s-expressions used to write syntax trees in tests
// and on the command line, and extracts golden test cases from Markdown.
package sexy

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeEllipsis:
		return "ellipsis"
	case NodeList:
		return "list"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is an atom or a list.
type Node struct {
	Type NodeType
	// NodeSymbol, NodeString, NodeInteger:
	Text string
	// NodeList:
	Items []*Node
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

// IsAtom reports whether the node is not a list.
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Head returns the leading symbol of a list, or "".
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

type parser struct {
	lexer        *lexer
	currentToken token
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()

	result, err := p.parseDatum()
	if p.lexer.err != nil {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, p.lexer.err
	}
	if err != nil {
		return nil, err
	}
	if p.currentToken.Type != tokenEOF {
		return nil, fmt.Errorf("offset %d: expected EOF but got %s", p.currentToken.Position, p.currentToken.Type)
	}
	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Node, error) {
	tok := p.currentToken
	switch tok.Type {
	case tokenSymbol:
		p.nextToken()
		return NewSymbol(tok.Value), nil
	case tokenString:
		p.nextToken()
		return NewString(tok.Value), nil
	case tokenInteger:
		p.nextToken()
		return NewInteger(tok.Value), nil
	case tokenEllipsis:
		p.nextToken()
		return &Node{Type: NodeEllipsis}, nil
	case tokenLParen:
		return p.parseList()
	default:
		return nil, fmt.Errorf("offset %d: unexpected token: %s", tok.Position, tok.Type)
	}
}

func (p *parser) parseList() (*Node, error) {
	open := p.currentToken.Position
	p.nextToken() // consume '('

	list := NewList()
	for p.currentToken.Type != tokenRParen && p.currentToken.Type != tokenEOF {
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
	if p.currentToken.Type != tokenRParen {
		return nil, fmt.Errorf("offset %d: unclosed '('", open)
	}
	p.nextToken() // consume ')'
	return list, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type     tokenType
	Value    string
	Position int
}

type lexer struct {
	input string
	pos   int
	err   error
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// fail records the first lexing error and ends the token stream.
func (l *lexer) fail(format string, args ...any) token {
	if l.err == nil {
		l.err = fmt.Errorf("offset %d: %s", l.pos, fmt.Sprintf(format, args...))
	}
	l.pos = len(l.input)
	return token{Type: tokenEOF, Position: l.pos}
}

func (l *lexer) nextToken() token {
	for {
		for unicode.IsSpace(rune(l.peek(0))) {
			l.pos++
		}
		// ; starts a comment running to the end of the line.
		if l.peek(0) != ';' {
			break
		}
		for c := l.peek(0); c != '\n' && c != 0; c = l.peek(0) {
			l.pos++
		}
	}

	start := l.pos
	c := l.peek(0)
	switch {
	case c == 0:
		return token{Type: tokenEOF, Position: start}
	case c == '(':
		l.pos++
		return token{Type: tokenLParen, Value: "(", Position: start}
	case c == ')':
		l.pos++
		return token{Type: tokenRParen, Value: ")", Position: start}
	case c == '"':
		return l.readString()
	case c == '.':
		if l.peek(1) == '.' && l.peek(2) == '.' {
			l.pos += 3
			return token{Type: tokenEllipsis, Value: "...", Position: start}
		}
		return l.fail("unexpected character '.'")
	case isDigit(c) || ((c == '-' || c == '+') && isDigit(l.peek(1))):
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
		return token{Type: tokenInteger, Value: l.input[start:l.pos], Position: start}
	case isSymbolChar(c):
		for isSymbolChar(l.peek(0)) {
			l.pos++
		}
		return token{Type: tokenSymbol, Value: l.input[start:l.pos], Position: start}
	default:
		return l.fail("unexpected character '%c'", c)
	}
}

func (l *lexer) readString() token {
	start := l.pos
	l.pos++ // skip opening quote

	var sb strings.Builder
	for {
		c := l.peek(0)
		switch c {
		case 0:
			return l.fail("unterminated string")
		case '"':
			l.pos++
			return token{Type: tokenString, Value: sb.String(), Position: start}
		case '\\':
			switch esc := l.peek(1); esc {
			case '"', '\\':
				sb.WriteByte(esc)
				l.pos += 2
			default:
				return l.fail("invalid escape sequence: \\%c", esc)
			}
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// A lone + or - reads as a symbol; followed by a digit it starts an integer.
func isSymbolChar(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || isDigit(c) || c == '_' || c == '-' || c == '+'
}
