// Package ast defines the syntax tree consumed by the three-address code
// generator.
package ast

// NodeKind represents different types of AST nodes
type NodeKind string

const (
	NodeProgram     NodeKind = "NodeProgram"
	NodeDeclaration NodeKind = "NodeDeclaration"
	NodeBlock       NodeKind = "NodeBlock"
	NodeEnumDef     NodeKind = "NodeEnumDef"
	NodeSwitch      NodeKind = "NodeSwitch"
	NodeCase        NodeKind = "NodeCase"
	NodeBreak       NodeKind = "NodeBreak"
	NodeIf          NodeKind = "NodeIf"
	NodeWhile       NodeKind = "NodeWhile"
	NodeFor         NodeKind = "NodeFor"
	NodeAssign      NodeKind = "NodeAssign"
	NodeExpr        NodeKind = "NodeExpr"
	NodeAddExpr     NodeKind = "NodeAddExpr"
	NodeMulExpr     NodeKind = "NodeMulExpr"
	NodeUnaExpr     NodeKind = "NodeUnaExpr"
	NodeBoolExpr    NodeKind = "NodeBoolExpr"
	NodeCompExpr    NodeKind = "NodeCompExpr"
	NodeNotExpr     NodeKind = "NodeNotExpr"
	NodeValue       NodeKind = "NodeValue"
	NodeBoolLiteral NodeKind = "NodeBoolLiteral"
	NodeIdent       NodeKind = "NodeIdent"
	NodeInteger     NodeKind = "NodeInteger"
)

// Declared types of a NodeDeclaration. An empty Type means the declaration
// names an enum type in Children[0] and the variable in Children[1].
const (
	TypeNum  = "num"
	TypeBool = "bool"
)

// Node represents a node in the Abstract Syntax Tree.
//
// Child order is fixed by grammar position:
//
//	NodeIf:     cond, then, [else]
//	NodeWhile:  cond, body
//	NodeFor:    init, cond, step, body
//	NodeSwitch: discriminant, case...
//	NodeCase:   member, body, [break]
//	NodeAssign: ident, expr
//	NodeEnumDef: type ident, member idents...
type Node struct {
	Kind NodeKind
	// NodeIdent:
	Name string
	// NodeDeclaration:
	Type string
	// NodeInteger:
	Integer int64
	// NodeBoolLiteral:
	Bool bool
	// NodeCompExpr:
	Op string
	// NodeAddExpr, NodeMulExpr, NodeBoolExpr: one operator per gap between
	// children. NodeUnaExpr, NodeNotExpr: prefix operators in source order.
	Ops      []string
	Children []*Node
}

// Ident returns a NodeIdent.
func Ident(name string) *Node {
	return &Node{Kind: NodeIdent, Name: name}
}

// Int returns a NodeInteger.
func Int(v int64) *Node {
	return &Node{Kind: NodeInteger, Integer: v}
}

// BoolLit returns a NodeBoolLiteral.
func BoolLit(v bool) *Node {
	return &Node{Kind: NodeBoolLiteral, Bool: v}
}

// New returns a node of the given kind with children.
func New(kind NodeKind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// WithOps returns a node of the given kind carrying an operator list.
func WithOps(kind NodeKind, ops []string, children ...*Node) *Node {
	return &Node{Kind: kind, Ops: ops, Children: children}
}

// Compare returns a two-operand NodeCompExpr.
func Compare(op string, left, right *Node) *Node {
	return &Node{Kind: NodeCompExpr, Op: op, Children: []*Node{left, right}}
}

// Declare returns a `num` or `bool` declaration of name.
func Declare(typ string, name string) *Node {
	return &Node{Kind: NodeDeclaration, Type: typ, Children: []*Node{Ident(name)}}
}

// DeclareEnumVar returns a declaration of variable name with enum type typ.
func DeclareEnumVar(typ string, name string) *Node {
	return &Node{Kind: NodeDeclaration, Children: []*Node{Ident(typ), Ident(name)}}
}

// Assign returns `name = expr`.
func Assign(name string, expr *Node) *Node {
	return New(NodeAssign, Ident(name), expr)
}

// Unwrap skips pass-through wrappers: NodeExpr, NodeValue, and operator
// levels holding a single operand and no operators. It returns nil if a
// wrapper has a nil child.
func Unwrap(node *Node) *Node {
	for node != nil {
		switch node.Kind {
		case NodeExpr, NodeValue:
			if len(node.Children) != 1 {
				return node
			}
		case NodeAddExpr, NodeMulExpr, NodeBoolExpr:
			if len(node.Ops) != 0 || len(node.Children) != 1 {
				return node
			}
		case NodeCompExpr:
			if node.Op != "" || len(node.Children) != 1 {
				return node
			}
		case NodeUnaExpr, NodeNotExpr:
			if len(node.Ops) != 0 || len(node.Children) != 1 {
				return node
			}
		default:
			return node
		}
		node = node.Children[0]
	}
	return node
}
