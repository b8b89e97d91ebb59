package tac

import (
	"fmt"

	"github.com/lekdel21/log3210-tp3/ast"
)

// program allocates the end label before anything else, so it is always the
// first label of a run.
func (t *Translator) program(node *ast.Node) {
	t.end = t.names.NewLabel()
	t.seq(node.Children, t.end)
	t.emitLabel(t.end)
}

// seq translates statements in order. Every statement but the last continues
// at a fresh label emitted right after it; the last continues at next.
func (t *Translator) seq(stmts []*ast.Node, next Label) {
	for i, stmt := range stmts {
		if i == len(stmts)-1 {
			t.stmt(stmt, next)
			return
		}
		l := t.names.NewLabel()
		t.stmt(stmt, l)
		t.emitLabel(l)
	}
}

// stmt translates one statement. next is where control goes when the
// statement completes normally.
func (t *Translator) stmt(node *ast.Node, next Label) {
	if node == nil {
		fail(ErrMalformed, "missing statement")
	}
	t.log.Debug("statement", "kind", string(node.Kind), "next", string(next))

	switch node.Kind {
	case ast.NodeDeclaration:
		t.declaration(node)
	case ast.NodeEnumDef:
		t.enumDef(node)
	case ast.NodeBlock:
		t.seq(node.Children, next)
	case ast.NodeIf:
		t.ifStmt(node, next)
	case ast.NodeWhile:
		t.whileStmt(node, next)
	case ast.NodeFor:
		t.forStmt(node, next)
	case ast.NodeSwitch:
		t.switchStmt(node, next)
	case ast.NodeBreak:
		arity(node, 0)
		t.emit("goto %s", t.breakTarget())
	case ast.NodeAssign:
		t.assign(node, next)
	default:
		fail(ErrMalformed, "unexpected %s in statement position", node.Kind)
	}
}

func (t *Translator) declaration(node *ast.Node) {
	switch node.Type {
	case ast.TypeNum:
		arity(node, 1)
		t.reg.DeclareVariable(t.declared(node.Children[0]), Number)
	case ast.TypeBool:
		arity(node, 1)
		t.reg.DeclareVariable(t.declared(node.Children[0]), Bool)
	case "":
		arity(node, 2)
		typeName := identName(node.Children[0])
		if kind := t.reg.Kind(typeName); kind != EnumType {
			fail(ErrKindMismatch, "%s '%s' used as an enum type", kind, typeName)
		}
		t.reg.DeclareVariable(t.declared(node.Children[1]), EnumVariable)
	default:
		fail(ErrMalformed, "unknown declared type %q", node.Type)
	}
}

func (t *Translator) enumDef(node *ast.Node) {
	if len(node.Children) == 0 {
		fail(ErrMalformed, "%s has no type name", node.Kind)
	}
	t.reg.DeclareEnumType(t.declared(node.Children[0]))
	for i, member := range node.Children[1:] {
		t.reg.DeclareEnumMember(t.declared(member), i)
	}
}

// declared returns the name introduced by a declaration. Names in the
// temporary namespace are refused: a later temporary would overwrite them.
func (t *Translator) declared(node *ast.Node) string {
	name := identName(node)
	if t.names.IsTemp(name) {
		fail(ErrReservedName, "name '%s' is reserved for temporaries", name)
	}
	return name
}

func (t *Translator) ifStmt(node *ast.Node, next Label) {
	switch len(node.Children) {
	case 2:
		tg := Targets{True: t.entry(), False: To(next)}
		t.cond(node.Children[0], tg)
		t.place(tg.True)
		t.stmt(node.Children[1], next)

	case 3:
		tg := Targets{True: t.entry(), False: To(t.names.NewLabel())}
		t.cond(node.Children[0], tg)
		t.place(tg.True)
		t.stmt(node.Children[1], next)
		t.emit("goto %s", next)
		t.emitLabel(tg.False.label)
		t.stmt(node.Children[2], next)

	default:
		fail(ErrMalformed, "%s expects 2 or 3 children but has %d", node.Kind, len(node.Children))
	}
}

func (t *Translator) whileStmt(node *ast.Node, next Label) {
	arity(node, 2)
	start := t.names.NewLabel()
	tg := Targets{True: t.entry(), False: To(next)}

	t.emitLabel(start)
	t.cond(node.Children[0], tg)
	t.place(tg.True)
	t.loopBody(node.Children[1], start, next)
	t.emit("goto %s", start)
}

// forStmt lays out init, then a while loop whose body is followed by step.
func (t *Translator) forStmt(node *ast.Node, next Label) {
	arity(node, 4)
	init, test, step, body := node.Children[0], node.Children[1], node.Children[2], node.Children[3]

	begin := t.names.NewLabel()
	t.stmt(init, begin)
	t.emitLabel(begin)

	tg := Targets{True: t.entry(), False: To(next)}
	t.cond(test, tg)
	t.place(tg.True)

	stepLabel := t.names.NewLabel()
	t.loopBody(body, stepLabel, next)
	t.emitLabel(stepLabel)
	t.stmt(step, begin)
	t.emit("goto %s", begin)
}

func (t *Translator) loopBody(body *ast.Node, cont, exit Label) {
	t.exits = append(t.exits, exit)
	t.stmt(body, cont)
	t.exits = t.exits[:len(t.exits)-1]
}

// breakTarget is the exit of the innermost switch or loop, or the end of
// the program outside of any.
func (t *Translator) breakTarget() Label {
	if len(t.exits) == 0 {
		return t.end
	}
	return t.exits[len(t.exits)-1]
}

// switchStmt tests the discriminant against each case in turn. A failed test
// moves on to the next case; the last one leaves the switch. A case body
// that does not end in break continues into the next case body.
func (t *Translator) switchStmt(node *ast.Node, next Label) {
	if len(node.Children) < 2 {
		fail(ErrMalformed, "%s has no cases", node.Kind)
	}
	disc := t.discriminant(node.Children[0])
	cases := node.Children[1:]

	t.exits = append(t.exits, next)
	defer func() { t.exits = t.exits[:len(t.exits)-1] }()

	var bodyLabel Label
	for i, c := range cases {
		if c == nil {
			fail(ErrMalformed, "missing case in %s", node.Kind)
		}
		if c.Kind != ast.NodeCase {
			fail(ErrMalformed, "unexpected %s in %s", c.Kind, node.Kind)
		}
		if len(c.Children) == 0 {
			fail(ErrMalformed, "%s has no member", c.Kind)
		}
		last := i == len(cases)-1

		mismatch := next
		if !last {
			mismatch = t.names.NewLabel()
		}
		ord := t.reg.Ordinal(identName(c.Children[0]))
		tg := Targets{True: t.entry(), False: To(mismatch)}
		t.test(fmt.Sprintf("%s == %d", disc, ord), tg)
		t.place(tg.True)
		if bodyLabel != "" {
			t.emitLabel(bodyLabel)
			bodyLabel = ""
		}

		body := c.Children[1:]
		if last || endsInBreak(body) {
			t.seq(body, next)
		} else {
			bodyLabel = t.names.NewLabel()
			t.seq(body, bodyLabel)
			t.emit("goto %s", bodyLabel)
		}

		if !last {
			t.emitLabel(mismatch)
		}
	}
}

// discriminant returns the address compared by a switch: an enum variable,
// or the ordinal of an enum member.
func (t *Translator) discriminant(node *ast.Node) Addr {
	name := identName(node)
	if kind, ok := t.reg.Lookup(name); ok && kind != EnumVariable {
		fail(ErrKindMismatch, "%s '%s' used as a switch value", kind, name)
	}
	return t.operand(name)
}

func endsInBreak(stmts []*ast.Node) bool {
	if len(stmts) == 0 {
		return false
	}
	last := stmts[len(stmts)-1]
	if last == nil {
		return false
	}
	switch last.Kind {
	case ast.NodeBreak:
		return true
	case ast.NodeBlock:
		return endsInBreak(last.Children)
	}
	return false
}

func (t *Translator) assign(node *ast.Node, next Label) {
	arity(node, 2)
	name := identName(node.Children[0])
	expr := node.Children[1]

	switch kind := t.reg.Kind(name); kind {
	case Number:
		t.assignArith(name, expr)

	case Bool:
		tg := Targets{True: t.entry(), False: To(t.names.NewLabel())}
		t.cond(expr, tg)
		t.place(tg.True)
		t.emit("%s = 1", name)
		t.emit("goto %s", next)
		t.emitLabel(tg.False.label)
		t.emit("%s = 0", name)

	case EnumVariable:
		src := ast.Unwrap(expr)
		if src == nil || src.Kind != ast.NodeIdent {
			fail(ErrKindMismatch, "enum variable '%s' assigned a non-enum expression", name)
		}
		t.assignEnum(name, src.Name)

	default:
		fail(ErrKindMismatch, "cannot assign to %s '%s'", kind, name)
	}
}

func (t *Translator) assignEnum(name, src string) {
	if ord, ok := t.reg.LookupOrdinal(src); ok {
		t.emit("%s = %d", name, ord)
		return
	}
	if srcKind := t.reg.Kind(src); srcKind != EnumVariable {
		fail(ErrKindMismatch, "%s '%s' assigned to enum variable '%s'", srcKind, src, name)
	}
	t.emit("%s = %s", name, src)
}
