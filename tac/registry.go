package tac

import "fmt"

// VarKind is the declared kind of an identifier.
type VarKind int

const (
	Number VarKind = iota + 1
	Bool
	EnumVariable
	EnumType
)

func (k VarKind) String() string {
	switch k {
	case Number:
		return "num"
	case Bool:
		return "bool"
	case EnumVariable:
		return "enum variable"
	case EnumType:
		return "enum type"
	default:
		return fmt.Sprintf("VarKind(%d)", int(k))
	}
}

// Registry maps identifiers to their declared kind and enum members to their
// ordinal. The namespace is flat and entries are never removed.
type Registry struct {
	kinds    map[string]VarKind
	ordinals map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds:    make(map[string]VarKind),
		ordinals: make(map[string]int),
	}
}

// DeclareVariable inserts or overwrites the kind of name.
func (r *Registry) DeclareVariable(name string, kind VarKind) {
	r.kinds[name] = kind
}

// DeclareEnumType records name as an enum type.
func (r *Registry) DeclareEnumType(name string) {
	r.kinds[name] = EnumType
}

// DeclareEnumMember records the ordinal of an enum member.
func (r *Registry) DeclareEnumMember(name string, ordinal int) {
	r.ordinals[name] = ordinal
}

// Lookup returns the kind of name without failing.
func (r *Registry) Lookup(name string) (VarKind, bool) {
	kind, ok := r.kinds[name]
	return kind, ok
}

// LookupOrdinal returns the ordinal of an enum member without failing.
func (r *Registry) LookupOrdinal(name string) (int, bool) {
	ord, ok := r.ordinals[name]
	return ord, ok
}

// Kind returns the kind of name.
//
// Panics with an ErrUndeclared *Error if name was never declared.
func (r *Registry) Kind(name string) VarKind {
	kind, ok := r.kinds[name]
	if !ok {
		fail(ErrUndeclared, "variable '%s' used before declaration", name)
	}
	return kind
}

// Ordinal returns the ordinal of an enum member.
//
// Panics with an ErrUndeclared *Error if name is not an enum member.
func (r *Registry) Ordinal(name string) int {
	ord, ok := r.ordinals[name]
	if !ok {
		fail(ErrUndeclared, "enum member '%s' used before declaration", name)
	}
	return ord
}
