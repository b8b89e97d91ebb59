package syntax

import (
	"github.com/lekdel21/log3210-tp3/ast"
)

// Parse reads a whole program from source text.
func Parse(source []byte) (*ast.Node, error) {
	l := NewLexer(source)
	l.NextToken()
	program := ParseProgram(l)
	if l.Errors.HasErrors() {
		return nil, l.Errors.Err()
	}
	return program, nil
}

// SkipToken advances past the current token, recording an error if it does
// not match the expected type. It reports whether the token matched.
func SkipToken(l *Lexer, expectedType TokenType) bool {
	if l.CurrTokenType != expectedType {
		l.Errors.Add(l.CurrLine, "expected %s but got %s", expectedType, describe(l))
		return false
	}
	l.NextToken()
	return true
}

func describe(l *Lexer) string {
	switch l.CurrTokenType {
	case EOF:
		return "end of input"
	case IDENT, INT:
		return string(l.CurrTokenType) + " " + l.CurrLiteral
	default:
		return "'" + l.CurrLiteral + "'"
	}
}

// ParseProgram parses statements until EOF. Parsing stops at the first
// error; the errors are in l.Errors.
func ParseProgram(l *Lexer) *ast.Node {
	program := &ast.Node{Kind: ast.NodeProgram}
	for l.CurrTokenType != EOF && !l.Errors.HasErrors() {
		program.Children = append(program.Children, ParseStatement(l))
	}
	return program
}

// ParseStatement parses a statement and returns an AST node
func ParseStatement(l *Lexer) *ast.Node {
	switch l.CurrTokenType {
	case NUM, BOOL:
		typ := ast.TypeNum
		if l.CurrTokenType == BOOL {
			typ = ast.TypeBool
		}
		l.NextToken()
		name := parseIdent(l)
		SkipToken(l, SEMICOLON)
		return &ast.Node{Kind: ast.NodeDeclaration, Type: typ, Children: []*ast.Node{name}}

	case ENUM:
		return parseEnumDef(l)

	case LBRACE:
		return parseBlock(l)

	case IF:
		l.NextToken()
		cond := parseCondition(l)
		then := ParseStatement(l)
		node := ast.New(ast.NodeIf, cond, then)
		if l.CurrTokenType == ELSE {
			l.NextToken()
			node.Children = append(node.Children, ParseStatement(l))
		}
		return node

	case WHILE:
		l.NextToken()
		cond := parseCondition(l)
		return ast.New(ast.NodeWhile, cond, ParseStatement(l))

	case FOR:
		l.NextToken()
		SkipToken(l, LPAREN)
		init := parseAssign(l)
		SkipToken(l, SEMICOLON)
		cond := ParseExpression(l)
		SkipToken(l, SEMICOLON)
		step := parseAssign(l)
		SkipToken(l, RPAREN)
		return ast.New(ast.NodeFor, init, cond, step, ParseStatement(l))

	case SWITCH:
		return parseSwitch(l)

	case BREAK:
		l.NextToken()
		SkipToken(l, SEMICOLON)
		return ast.New(ast.NodeBreak)

	case IDENT:
		// An identifier followed by another one declares a variable of an
		// enum type: `Color c;`.
		if l.PeekToken() == IDENT {
			typ := parseIdent(l)
			name := parseIdent(l)
			SkipToken(l, SEMICOLON)
			return ast.New(ast.NodeDeclaration, typ, name)
		}
		node := parseAssign(l)
		SkipToken(l, SEMICOLON)
		return node

	default:
		l.Errors.Add(l.CurrLine, "expected statement but got %s", describe(l))
		l.NextToken()
		return &ast.Node{}
	}
}

func parseIdent(l *Lexer) *ast.Node {
	name := l.CurrLiteral
	if !SkipToken(l, IDENT) {
		return ast.Ident("")
	}
	return ast.Ident(name)
}

func parseCondition(l *Lexer) *ast.Node {
	SkipToken(l, LPAREN)
	cond := ParseExpression(l)
	SkipToken(l, RPAREN)
	return cond
}

func parseAssign(l *Lexer) *ast.Node {
	name := parseIdent(l)
	SkipToken(l, ASSIGN)
	return ast.New(ast.NodeAssign, name, ParseExpression(l))
}

func parseBlock(l *Lexer) *ast.Node {
	SkipToken(l, LBRACE)
	block := ast.New(ast.NodeBlock)
	for l.CurrTokenType != RBRACE && l.CurrTokenType != EOF && !l.Errors.HasErrors() {
		block.Children = append(block.Children, ParseStatement(l))
	}
	SkipToken(l, RBRACE)
	return block
}

// parseEnumDef parses `enum Color { Red, Green, Blue }`.
func parseEnumDef(l *Lexer) *ast.Node {
	SkipToken(l, ENUM)
	node := ast.New(ast.NodeEnumDef, parseIdent(l))
	SkipToken(l, LBRACE)
	for l.CurrTokenType != RBRACE && l.CurrTokenType != EOF && !l.Errors.HasErrors() {
		node.Children = append(node.Children, parseIdent(l))
		if l.CurrTokenType != COMMA {
			break
		}
		l.NextToken()
	}
	SkipToken(l, RBRACE)
	if l.CurrTokenType == SEMICOLON {
		l.NextToken()
	}
	if len(node.Children) == 1 && !l.Errors.HasErrors() {
		l.Errors.Add(l.CurrLine, "enum %s has no members", node.Children[0].Name)
	}
	return node
}

// parseSwitch parses
//
//	switch (c) { case Red: stmts... [break;] case Green: ... }
//
// Each case becomes (case member (block stmts...) [break]).
func parseSwitch(l *Lexer) *ast.Node {
	SkipToken(l, SWITCH)
	node := ast.New(ast.NodeSwitch, parseCondition(l))
	SkipToken(l, LBRACE)
	for l.CurrTokenType == CASE && !l.Errors.HasErrors() {
		l.NextToken()
		member := parseIdent(l)
		SkipToken(l, COLON)

		body := ast.New(ast.NodeBlock)
		for l.CurrTokenType != CASE && l.CurrTokenType != RBRACE && l.CurrTokenType != EOF && !l.Errors.HasErrors() {
			body.Children = append(body.Children, ParseStatement(l))
		}

		c := ast.New(ast.NodeCase, member)
		if n := len(body.Children); n > 0 && body.Children[n-1].Kind == ast.NodeBreak {
			brk := body.Children[n-1]
			body.Children = body.Children[:n-1]
			c.Children = append(c.Children, body, brk)
		} else {
			c.Children = append(c.Children, body)
		}
		node.Children = append(node.Children, c)
	}
	if len(node.Children) == 1 && !l.Errors.HasErrors() {
		l.Errors.Add(l.CurrLine, "switch has no cases")
	}
	SkipToken(l, RBRACE)
	return node
}

// ParseExpression parses an expression and wraps it in a NodeExpr.
//
// Precedence, loosest first: ||, &&, !, comparisons, + -, * / %, unary - +.
// Levels with a single operand and no operator are left out of the tree.
func ParseExpression(l *Lexer) *ast.Node {
	return ast.New(ast.NodeExpr, parseOr(l))
}

func parseOr(l *Lexer) *ast.Node {
	return parseLogical(l, OR, parseAnd)
}

func parseAnd(l *Lexer) *ast.Node {
	return parseLogical(l, AND, parseNot)
}

func parseLogical(l *Lexer, op TokenType, operand func(*Lexer) *ast.Node) *ast.Node {
	first := operand(l)
	if l.CurrTokenType != op {
		return first
	}
	node := ast.New(ast.NodeBoolExpr, first)
	for l.CurrTokenType == op && !l.Errors.HasErrors() {
		node.Ops = append(node.Ops, l.CurrLiteral)
		l.NextToken()
		node.Children = append(node.Children, operand(l))
	}
	return node
}

func parseNot(l *Lexer) *ast.Node {
	var ops []string
	for l.CurrTokenType == BANG {
		ops = append(ops, l.CurrLiteral)
		l.NextToken()
	}
	operand := parseComparison(l)
	if len(ops) == 0 {
		return operand
	}
	return ast.WithOps(ast.NodeNotExpr, ops, operand)
}

func isComparison(t TokenType) bool {
	switch t {
	case EQ, NOT_EQ, LT, GT, LE, GE:
		return true
	default:
		return false
	}
}

func parseComparison(l *Lexer) *ast.Node {
	left := parseAdd(l)
	if !isComparison(l.CurrTokenType) {
		return left
	}
	op := l.CurrLiteral
	l.NextToken()
	return ast.Compare(op, left, parseAdd(l))
}

func parseAdd(l *Lexer) *ast.Node {
	return parseBinary(l, ast.NodeAddExpr, parseMul, PLUS, MINUS)
}

func parseMul(l *Lexer) *ast.Node {
	return parseBinary(l, ast.NodeMulExpr, parseUnary, ASTERISK, SLASH, PERCENT)
}

// parseBinary parses a left-associative level. Each operator gets its own
// two-operand node: a - b + c is (add "+" (add "-" a b) c).
func parseBinary(l *Lexer, kind ast.NodeKind, operand func(*Lexer) *ast.Node, ops ...TokenType) *ast.Node {
	left := operand(l)
	for !l.Errors.HasErrors() {
		matched := false
		for _, op := range ops {
			if l.CurrTokenType == op {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		op := l.CurrLiteral
		l.NextToken()
		left = ast.WithOps(kind, []string{op}, left, operand(l))
	}
	return left
}

func parseUnary(l *Lexer) *ast.Node {
	var ops []string
	for l.CurrTokenType == MINUS || l.CurrTokenType == PLUS {
		ops = append(ops, l.CurrLiteral)
		l.NextToken()
	}
	operand := parsePrimary(l)
	if len(ops) == 0 {
		return operand
	}
	return ast.WithOps(ast.NodeUnaExpr, ops, operand)
}

// parsePrimary handles primary expressions (literals, identifiers, parentheses)
func parsePrimary(l *Lexer) *ast.Node {
	switch l.CurrTokenType {
	case INT:
		node := ast.Int(l.CurrIntValue)
		l.NextToken()
		return node

	case TRUE, FALSE:
		node := ast.BoolLit(l.CurrTokenType == TRUE)
		l.NextToken()
		return node

	case IDENT:
		return parseIdent(l)

	case LPAREN:
		l.NextToken()
		expr := ParseExpression(l)
		SkipToken(l, RPAREN)
		return expr

	default:
		l.Errors.Add(l.CurrLine, "expected expression but got %s", describe(l))
		return ast.Int(0)
	}
}
