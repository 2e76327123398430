// Package object defines the snapshot object model shared by every
// database backend, and the content hash used for canonical value identity.
package object

import "github.com/rodent-software/contractdb/types"

// Database is the serialized form of a whole contract database.
type Database struct {
	// Maps is a mapping of names to data map snapshots.
	Maps map[string]*Map
}

// Map is the serialized form of a single data map.
type Map struct {
	// KeyType admits every entry key.
	KeyType types.TupleType
	// ValueType admits every entry value.
	ValueType types.TupleType
	// Entries holds the map contents in canonical key order.
	Entries []Entry
}

// Entry is a single key value pair.
type Entry struct {
	Key   types.Value
	Value types.Value
}
