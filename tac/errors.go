package tac

import "fmt"

// ErrorKind classifies a fatal translation error.
type ErrorKind int

const (
	// ErrUndeclared is an identifier or enum member with no registry entry.
	ErrUndeclared ErrorKind = iota + 1
	// ErrKindMismatch is an identifier or expression used against its kind.
	ErrKindMismatch
	// ErrMalformed is a node with an unexpected kind or child count.
	ErrMalformed
	// ErrReservedName is a declared name that could collide with a
	// generated temporary.
	ErrReservedName
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUndeclared:
		return "undeclared reference"
	case ErrKindMismatch:
		return "kind mismatch"
	case ErrMalformed:
		return "malformed tree"
	case ErrReservedName:
		return "reserved name"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error aborts a translation run. None of its kinds are recoverable: the
// output emitted before it is incomplete.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return "error: " + e.Msg
}

func fail(kind ErrorKind, format string, args ...any) {
	panic(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}
