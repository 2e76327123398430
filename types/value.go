// Package types defines the contract value model and the type signatures
// that describe admissible value shapes.
//
// Values are the runtime data of the contract language: a distinguished
// void sentinel, booleans, integers, buffers, principals, and named-field
// tuples. Every value supports deep equality; canonical identity for use
// as a storage key is derived from the codec's canonical encoding.
package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// Value is a contract runtime value. Concrete types:
//
//   - Void      (the absent sentinel returned for missing entries)
//   - Bool
//   - Int
//   - Buffer
//   - Principal
//   - Tuple
type Value interface {
	fmt.Stringer
	// Equal reports whether the other value is the same variant with equal contents.
	Equal(other Value) bool
	contractValue() // sealed marker — only types in this package implement Value
}

// Void is the distinguished absent value.
type Void struct{}

// Bool is a boolean value.
type Bool bool

// Int is a signed integer value.
type Int int64

// Buffer is an arbitrary byte sequence value.
type Buffer []byte

// Principal identifies an account or contract.
type Principal string

// Tuple is a value with named fields.
type Tuple map[string]Value

func (Void) contractValue()      {}
func (Bool) contractValue()      {}
func (Int) contractValue()       {}
func (Buffer) contractValue()    {}
func (Principal) contractValue() {}
func (Tuple) contractValue()     {}

func (Void) Equal(other Value) bool {
	_, ok := other.(Void)
	return ok
}

func (v Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && v == o
}

func (v Int) Equal(other Value) bool {
	o, ok := other.(Int)
	return ok && v == o
}

func (v Buffer) Equal(other Value) bool {
	o, ok := other.(Buffer)
	return ok && bytes.Equal(v, o)
}

func (v Principal) Equal(other Value) bool {
	o, ok := other.(Principal)
	return ok && v == o
}

func (v Tuple) Equal(other Value) bool {
	o, ok := other.(Tuple)
	if !ok || len(v) != len(o) {
		return false
	}
	for name, field := range v {
		of, ok := o[name]
		if !ok || !field.Equal(of) {
			return false
		}
	}
	return true
}

func (Void) String() string {
	return "(void)"
}

func (v Bool) String() string {
	return fmt.Sprintf("%t", bool(v))
}

func (v Int) String() string {
	return fmt.Sprintf("%d", int64(v))
}

func (v Buffer) String() string {
	return "0x" + hex.EncodeToString(v)
}

func (v Principal) String() string {
	return "'" + string(v)
}

func (v Tuple) String() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString("(tuple")
	for _, name := range names {
		fmt.Fprintf(&sb, " (%s %s)", name, v[name])
	}
	sb.WriteString(")")
	return sb.String()
}

// FieldNames returns the tuple field names in sorted order.
func (v Tuple) FieldNames() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
