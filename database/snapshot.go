package database

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/rodent-software/contractdb/codec"
	"github.com/rodent-software/contractdb/object"
)

// Snapshot returns the serialized form of this data map. Entries appear in
// canonical key order so snapshots of equal maps are identical.
func (m *MemoryDataMap) Snapshot() *object.Map {
	hashes := make([]string, 0, len(m.entries))
	for hash := range m.entries {
		hashes = append(hashes, hash)
	}
	slices.Sort(hashes)

	entries := make([]object.Entry, len(hashes))
	for i, hash := range hashes {
		e := m.entries[hash]
		entries[i] = object.Entry{Key: e.key, Value: e.value}
	}
	return &object.Map{
		KeyType:   m.keyType,
		ValueType: m.valueType,
		Entries:   entries,
	}
}

// Snapshot returns the serialized form of the whole database.
func (db *MemoryContractDatabase) Snapshot() *object.Database {
	maps := make(map[string]*object.Map, len(db.maps))
	for name, m := range db.maps {
		maps[name] = m.Snapshot()
	}
	return &object.Database{Maps: maps}
}

// Serialize writes the canonical encoding of the database to w. Restoring
// the encoded form yields a database with identical names, signatures, and
// entries.
func (db *MemoryContractDatabase) Serialize(ctx context.Context, w io.Writer) error {
	enc := codec.NewEncoder(w)
	if err := enc.EncodeDatabase(db.Snapshot()); err != nil {
		return err
	}
	return enc.Flush()
}

// Restore reads a serialized database from r.
func Restore(ctx context.Context, r io.Reader) (*MemoryContractDatabase, error) {
	snapshot, err := codec.NewDecoder(r).DecodeDatabase()
	if err != nil {
		return nil, err
	}
	return FromSnapshot(ctx, snapshot)
}

// FromSnapshot builds an in-memory database from a snapshot, checking
// every entry against its map's signatures so a restored database always
// satisfies the admission invariant.
func FromSnapshot(ctx context.Context, snapshot *object.Database) (*MemoryContractDatabase, error) {
	db := NewMemoryContractDatabase()
	for name, snap := range snapshot.Maps {
		if err := db.CreateMap(ctx, name, snap.KeyType, snap.ValueType); err != nil {
			return nil, err
		}
		m := db.maps[name]
		for _, e := range snap.Entries {
			if err := m.SetEntry(ctx, e.Key, e.Value); err != nil {
				return nil, fmt.Errorf("restore map %s: %w", name, err)
			}
		}
	}
	return db, nil
}
