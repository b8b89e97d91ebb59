package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lekdel21/log3210-tp3/sexy"
)

var sexprHeads = map[NodeKind]string{
	NodeProgram:     "program",
	NodeDeclaration: "decl",
	NodeBlock:       "block",
	NodeEnumDef:     "enum",
	NodeSwitch:      "switch",
	NodeCase:        "case",
	NodeBreak:       "break",
	NodeIf:          "if",
	NodeWhile:       "while",
	NodeFor:         "for",
	NodeAssign:      "assign",
	NodeExpr:        "expr",
	NodeAddExpr:     "add",
	NodeMulExpr:     "mul",
	NodeUnaExpr:     "unary",
	NodeBoolExpr:    "bool",
	NodeCompExpr:    "comp",
	NodeNotExpr:     "not",
	NodeValue:       "value",
	NodeBoolLiteral: "boolean",
	NodeIdent:       "ident",
	NodeInteger:     "integer",
}

var sexprKinds = func() map[string]NodeKind {
	kinds := make(map[string]NodeKind, len(sexprHeads))
	for kind, head := range sexprHeads {
		kinds[head] = kind
	}
	return kinds
}()

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node *Node) string {
	if node == nil {
		return "()"
	}
	switch node.Kind {
	case NodeIdent:
		return "(ident " + strconv.Quote(node.Name) + ")"
	case NodeInteger:
		return "(integer " + strconv.FormatInt(node.Integer, 10) + ")"
	case NodeBoolLiteral:
		return "(boolean " + strconv.FormatBool(node.Bool) + ")"
	}

	head, ok := sexprHeads[node.Kind]
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("(" + head)
	if node.Kind == NodeDeclaration && node.Type != "" {
		sb.WriteString(" " + strconv.Quote(node.Type))
	}
	if node.Op != "" {
		sb.WriteString(" " + strconv.Quote(node.Op))
	}
	for _, op := range node.Ops {
		sb.WriteString(" " + strconv.Quote(op))
	}
	for _, child := range node.Children {
		sb.WriteString(" " + ToSExpr(child))
	}
	sb.WriteString(")")
	return sb.String()
}

// ParseSExpr parses the s-expression form produced by ToSExpr.
func ParseSExpr(input string) (*Node, error) {
	datum, err := sexy.Parse(input)
	if err != nil {
		return nil, err
	}
	return FromSexy(datum)
}

// FromSexy converts a parsed s-expression into an AST node.
//
// Bare atoms are accepted as shorthand: integers become NodeInteger, the
// symbols true and false become NodeBoolLiteral, and other symbols become
// NodeIdent.
func FromSexy(n *sexy.Node) (*Node, error) {
	switch n.Type {
	case sexy.NodeInteger:
		v, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", n.Text, err)
		}
		return Int(v), nil
	case sexy.NodeSymbol:
		switch n.Text {
		case "true":
			return BoolLit(true), nil
		case "false":
			return BoolLit(false), nil
		}
		return Ident(n.Text), nil
	case sexy.NodeList:
	default:
		return nil, fmt.Errorf("unexpected %s in syntax tree", n.String())
	}

	if len(n.Items) == 0 || n.Items[0].Type != sexy.NodeSymbol {
		return nil, fmt.Errorf("expected node name at start of %s", n.String())
	}
	kind, ok := sexprKinds[n.Items[0].Text]
	if !ok {
		return nil, fmt.Errorf("unknown node %q", n.Items[0].Text)
	}
	args := n.Items[1:]

	switch kind {
	case NodeIdent:
		if len(args) != 1 || args[0].Type != sexy.NodeString {
			return nil, fmt.Errorf("ident expects one string: %s", n.String())
		}
		return Ident(args[0].Text), nil
	case NodeInteger:
		if len(args) != 1 || args[0].Type != sexy.NodeInteger {
			return nil, fmt.Errorf("integer expects one integer: %s", n.String())
		}
		return FromSexy(args[0])
	case NodeBoolLiteral:
		if len(args) != 1 || args[0].Type != sexy.NodeSymbol || (args[0].Text != "true" && args[0].Text != "false") {
			return nil, fmt.Errorf("boolean expects true or false: %s", n.String())
		}
		return BoolLit(args[0].Text == "true"), nil
	}

	node := &Node{Kind: kind}
	var strs []string
	for len(args) > 0 && args[0].Type == sexy.NodeString {
		strs = append(strs, args[0].Text)
		args = args[1:]
	}
	switch kind {
	case NodeDeclaration:
		if len(strs) > 1 {
			return nil, fmt.Errorf("decl takes at most one type: %s", n.String())
		}
		if len(strs) == 1 {
			node.Type = strs[0]
		}
	case NodeCompExpr:
		if len(strs) > 1 {
			return nil, fmt.Errorf("comp takes at most one operator: %s", n.String())
		}
		if len(strs) == 1 {
			node.Op = strs[0]
		}
	case NodeAddExpr, NodeMulExpr, NodeUnaExpr, NodeBoolExpr, NodeNotExpr:
		node.Ops = strs
	default:
		if len(strs) > 0 {
			return nil, fmt.Errorf("%s takes no strings: %s", n.Items[0].Text, n.String())
		}
	}

	for _, arg := range args {
		child, err := FromSexy(arg)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
