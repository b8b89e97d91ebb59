// Package tac translates a syntax tree into three-address code: a linear
// listing of assignments, labels and jumps.
//
// Output lines take one of these forms:
//
//	_L3
//	x = y
//	_t0 = a + b
//	_t1 = - a
//	goto _L3
//	if a < b goto _L3
//	ifFalse a < b goto _L3
package tac

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lekdel21/log3210-tp3/ast"
)

// Strategy selects how boolean jump code is laid out.
type Strategy int

const (
	// FallThrough omits the jump for whichever side of a condition is
	// reached by running into the next line.
	FallThrough Strategy = iota
	// JumpCode gives both sides of every condition an explicit label.
	JumpCode
)

func (s Strategy) String() string {
	switch s {
	case FallThrough:
		return "fall"
	case JumpCode:
		return "jump"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "fall" or "jump".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "fall", "":
		return FallThrough, nil
	case "jump":
		return JumpCode, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (want \"fall\" or \"jump\")", s)
	}
}

// Option configures a Translator.
type Option func(*Translator)

// WithStrategy sets the boolean code layout. The default is FallThrough.
func WithStrategy(s Strategy) Option {
	return func(t *Translator) { t.strategy = s }
}

// WithNames sets the temporary and label prefixes. The defaults are "_t" and
// "_L".
func WithNames(tempPrefix, labelPrefix string) Option {
	return func(t *Translator) { t.names = NewNames(tempPrefix, labelPrefix) }
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) { t.log = l }
}

// Translator holds the state of one translation run: the registry, the name
// counters, and the exits of the constructs currently being translated.
type Translator struct {
	sink     Sink
	names    *Names
	reg      *Registry
	strategy Strategy
	log      *slog.Logger

	end   Label
	exits []Label
	lines int
}

// New creates a Translator writing to sink.
func New(sink Sink, opts ...Option) *Translator {
	t := &Translator{
		sink:  sink,
		names: NewNames("_t", "_L"),
		reg:   NewRegistry(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Registry returns the symbol and enum tables filled in by Translate.
func (t *Translator) Registry() *Registry {
	return t.reg
}

// Names returns the allocator used by the run.
func (t *Translator) Names() *Names {
	return t.names
}

// Translate emits the code for a NodeProgram.
//
// On failure the returned error is a *Error, and nothing was emitted past the
// point of failure.
func (t *Translator) Translate(root *ast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			t.log.Debug("translation aborted", "kind", e.Kind.String(), "err", e.Msg, "lines", t.lines)
			err = e
		}
	}()

	if root == nil {
		fail(ErrMalformed, "missing program")
	}
	if root.Kind != ast.NodeProgram {
		fail(ErrMalformed, "expected %s at root but got %s", ast.NodeProgram, root.Kind)
	}
	t.program(root)

	t.log.Debug("translation finished",
		"strategy", t.strategy.String(),
		"labels", t.names.Labels(),
		"temps", t.names.Temps(),
		"lines", t.lines)
	return nil
}

// Generate translates root into an in-memory listing.
func Generate(root *ast.Node, opts ...Option) ([]string, error) {
	var out Listing
	if err := New(&out, opts...).Translate(root); err != nil {
		return out.Lines, err
	}
	return out.Lines, nil
}

func (t *Translator) emit(format string, args ...any) {
	t.sink.Emit(fmt.Sprintf(format, args...))
	t.lines++
}

func (t *Translator) emitLabel(l Label) {
	t.sink.Emit(string(l))
	t.lines++
}

// entry returns the target for code that is emitted right after the current
// one. The fall-through strategy leaves it implicit; the jump-code strategy
// gives it a fresh label, which the caller must place.
func (t *Translator) entry() Target {
	if t.strategy == JumpCode {
		return To(t.names.NewLabel())
	}
	return Fall
}

// place emits the label of a real target.
func (t *Translator) place(target Target) {
	if !target.IsFall() {
		t.emitLabel(target.label)
	}
}

func arity(node *ast.Node, want int) {
	if len(node.Children) != want {
		fail(ErrMalformed, "%s expects %d children but has %d", node.Kind, want, len(node.Children))
	}
}

func identName(node *ast.Node) string {
	node = ast.Unwrap(node)
	if node == nil || node.Kind != ast.NodeIdent {
		kind := ast.NodeKind("nil")
		if node != nil {
			kind = node.Kind
		}
		fail(ErrMalformed, "expected %s but got %s", ast.NodeIdent, kind)
	}
	return node.Name
}
