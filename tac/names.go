package tac

import (
	"strconv"
	"strings"
)

// Addr is the result of translating an expression: a temporary, a variable
// name, or the text of a literal.
type Addr string

// Label names a point in the emitted instruction stream.
type Label string

// Names hands out temporaries and labels. The two counters are independent,
// start at zero and are never reused within a translation run.
type Names struct {
	tempPrefix  string
	labelPrefix string
	temps       int
	labels      int
}

// NewNames returns an allocator using the given prefixes.
func NewNames(tempPrefix, labelPrefix string) *Names {
	return &Names{tempPrefix: tempPrefix, labelPrefix: labelPrefix}
}

// NewTemp returns a temporary that has never been returned before.
func (n *Names) NewTemp() Addr {
	a := Addr(n.tempPrefix + strconv.Itoa(n.temps))
	n.temps++
	return a
}

// NewLabel returns a label that has never been returned before.
func (n *Names) NewLabel() Label {
	l := Label(n.labelPrefix + strconv.Itoa(n.labels))
	n.labels++
	return l
}

// IsTemp reports whether name is in the namespace of temporaries.
func (n *Names) IsTemp(name string) bool {
	return strings.HasPrefix(name, n.tempPrefix)
}

// Temps reports how many temporaries were allocated.
func (n *Names) Temps() int { return n.temps }

// Labels reports how many labels were allocated.
func (n *Names) Labels() int { return n.labels }
