package tac

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestNamesCountersAreIndependent(t *testing.T) {
	n := NewNames("t", "L")
	be.Equal(t, n.NewLabel(), Label("L0"))
	be.Equal(t, n.NewTemp(), Addr("t0"))
	be.Equal(t, n.NewTemp(), Addr("t1"))
	be.Equal(t, n.NewLabel(), Label("L1"))
	be.Equal(t, n.Temps(), 2)
	be.Equal(t, n.Labels(), 2)

	be.True(t, n.IsTemp("t0"))
	be.True(t, n.IsTemp("total"))
	be.True(t, !n.IsTemp("x"))
	be.True(t, !n.IsTemp("L0"))
}

func TestTargets(t *testing.T) {
	be.True(t, Fall.IsFall())
	be.Equal(t, Fall.String(), "fall")

	tg := Targets{True: To("_L1"), False: Fall}
	sw := tg.Swap()
	be.True(t, sw.True.IsFall())
	be.Equal(t, sw.False.Label(), Label("_L1"))
	be.Equal(t, sw.Swap(), tg)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.DeclareVariable("x", Number)
	r.DeclareVariable("x", Bool)
	r.DeclareEnumType("Color")
	r.DeclareEnumMember("Red", 0)

	be.Equal(t, r.Kind("x"), Bool)
	be.Equal(t, r.Kind("Color"), EnumType)
	be.Equal(t, r.Ordinal("Red"), 0)

	_, ok := r.Lookup("Red")
	be.True(t, !ok)

	defer func() {
		e, ok := recover().(*Error)
		be.True(t, ok)
		be.Equal(t, e.Kind, ErrUndeclared)
		be.Equal(t, e.Error(), "error: enum member 'Blue' used before declaration")
	}()
	r.Ordinal("Blue")
}

func TestWithNamesPrefixes(t *testing.T) {
	root := compileTree(t, "num x; x = 1 + 2 * 3;")
	lines, err := Generate(root, WithNames("tmp", "lbl"))
	be.Err(t, err, nil)
	be.Equal(t, lines, []string{"lbl1", "tmp0 = 2 * 3", "x = 1 + tmp0", "lbl0"})
}

func TestListingString(t *testing.T) {
	var l Listing
	be.Equal(t, l.String(), "")
	l.Emit("_L0")
	l.Emit("x = 1")
	be.Equal(t, l.String(), "_L0\nx = 1\n")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterSink(t *testing.T) {
	var sb strings.Builder
	s := NewWriterSink(&sb)
	s.Emit("_L1")
	s.Emit("x = 1")
	be.Equal(t, sb.String(), "")
	be.Err(t, s.Flush(), nil)
	be.Equal(t, sb.String(), "_L1\nx = 1\n")

	s = NewWriterSink(failingWriter{})
	s.Emit("_L1")
	be.Err(t, s.Flush(), "disk full")
	be.Err(t, s.Err(), "disk full")
	s.Emit("ignored")
	be.Err(t, s.Flush(), "disk full")
}
