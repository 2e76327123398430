package types

import (
	"fmt"
	"slices"
	"strings"
)

// TypeSignature describes the admissible shape of a Value.
type TypeSignature interface {
	fmt.Stringer
	// Admits reports whether the given value conforms to this signature.
	Admits(value Value) bool
	typeSignature() // sealed marker — only types in this package implement TypeSignature
}

// IntType admits Int values.
type IntType struct{}

// BoolType admits Bool values.
type BoolType struct{}

// BufferType admits Buffer values.
type BufferType struct{}

// PrincipalType admits Principal values.
type PrincipalType struct{}

// TupleType admits Tuple values with exactly the declared fields.
type TupleType struct {
	// Fields is a mapping of field names to their signatures.
	Fields map[string]TypeSignature
}

func (IntType) typeSignature()       {}
func (BoolType) typeSignature()      {}
func (BufferType) typeSignature()    {}
func (PrincipalType) typeSignature() {}
func (TupleType) typeSignature()     {}

func (IntType) Admits(value Value) bool {
	_, ok := value.(Int)
	return ok
}

func (BoolType) Admits(value Value) bool {
	_, ok := value.(Bool)
	return ok
}

func (BufferType) Admits(value Value) bool {
	_, ok := value.(Buffer)
	return ok
}

func (PrincipalType) Admits(value Value) bool {
	_, ok := value.(Principal)
	return ok
}

// Admits requires an exact field match: every declared field present and
// admitted, and no extra fields.
func (t TupleType) Admits(value Value) bool {
	tuple, ok := value.(Tuple)
	if !ok || len(tuple) != len(t.Fields) {
		return false
	}
	for name, sig := range t.Fields {
		field, ok := tuple[name]
		if !ok || !sig.Admits(field) {
			return false
		}
	}
	return true
}

func (IntType) String() string {
	return "int"
}

func (BoolType) String() string {
	return "bool"
}

func (BufferType) String() string {
	return "buff"
}

func (PrincipalType) String() string {
	return "principal"
}

func (t TupleType) String() string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString("(tuple")
	for _, name := range names {
		fmt.Fprintf(&sb, " (%s %s)", name, t.Fields[name])
	}
	sb.WriteString(")")
	return sb.String()
}

// FieldNames returns the declared field names in sorted order.
func (t TupleType) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
