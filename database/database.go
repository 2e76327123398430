// Package database implements the persistent state abstraction of the
// contract execution environment: named, schema-typed data maps owned by a
// contract database.
//
// Backends implement identical fetch/set/insert/delete contracts so the
// execution engine can swap the in-memory database for a durable one
// without changing contract visible behavior. The model is single
// accessor: a caller holds either read handles or one read-write handle to
// a map, never both, and any cross-operation transaction or locking layer
// belongs to the engine above this interface.
package database

import (
	"context"

	"github.com/rodent-software/contractdb/codec"
	"github.com/rodent-software/contractdb/object"
	"github.com/rodent-software/contractdb/types"
)

// DataMapReader is a read-only handle to a data map.
type DataMapReader interface {
	// FetchEntry returns the value stored under the given key, or Void if
	// no entry exists. The key must be admitted by the map's key signature.
	FetchEntry(ctx context.Context, key types.Value) (types.Value, error)
}

// DataMap is a read-write handle to a data map.
//
// Every operation validates its arguments against the map's signatures
// before touching any state, so a failed validation leaves the map
// unchanged.
type DataMap interface {
	DataMapReader

	// SetEntry unconditionally inserts or overwrites the entry for key.
	SetEntry(ctx context.Context, key, value types.Value) error
	// InsertEntry inserts the entry only if no entry exists for key.
	// It returns false and performs no mutation when one does.
	InsertEntry(ctx context.Context, key, value types.Value) (bool, error)
	// DeleteEntry removes the entry for key, returning true iff one existed.
	DeleteEntry(ctx context.Context, key types.Value) (bool, error)
}

// ContractDatabase owns a named collection of data maps.
type ContractDatabase interface {
	// GetDataMap returns a read handle to the named map, or false if no
	// map with that name exists. Absence is not an error.
	GetDataMap(name string) (DataMapReader, bool)
	// GetMutDataMap returns a read-write handle to the named map, or
	// false if no map with that name exists.
	GetMutDataMap(name string) (DataMap, bool)
	// CreateMap installs a new empty data map with the given signatures
	// under name, unconditionally replacing any existing map of that name
	// along with its entries.
	CreateMap(ctx context.Context, name string, keyType, valueType types.TupleType) error
}

// canonicalKey returns the canonical identity of a key value, used as the
// entry index by every backend. Equal keys always produce equal hashes
// because the codec encoding is canonical.
func canonicalKey(key types.Value) (object.Hash, error) {
	data, err := codec.CanonicalBytes(key)
	if err != nil {
		return nil, err
	}
	return object.Sum(data), nil
}
