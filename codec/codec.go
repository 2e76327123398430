// Package codec implements the canonical binary encoding for contract
// values, type signatures, and database snapshot objects.
//
// The encoding is canonical: tuple fields and snapshot maps are written in
// sorted key order, so equal values always produce equal bytes. Canonical
// bytes are what the content hash in the object package is computed over.
package codec

const (
	kindVoid      = byte(1)
	kindBool      = byte(2)
	kindInt       = byte(3)
	kindBuffer    = byte(4)
	kindPrincipal = byte(5)
	kindTuple     = byte(6)
	kindString    = byte(7)

	kindIntType       = byte(20)
	kindBoolType      = byte(21)
	kindBufferType    = byte(22)
	kindPrincipalType = byte(23)
	kindTupleType     = byte(24)

	kindDatabase = byte(100)
	kindMap      = byte(101)
	kindEntry    = byte(102)
)
