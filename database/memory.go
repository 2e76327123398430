package database

import (
	"context"

	"github.com/rodent-software/contractdb/types"
)

type entry struct {
	key   types.Value
	value types.Value
}

// MemoryDataMap is the in-memory data map. Entries are indexed by the
// canonical hash of their key so tuple keys behave as values, and the
// original key is kept alongside for snapshots.
type MemoryDataMap struct {
	keyType   types.TupleType
	valueType types.TupleType
	entries   map[string]entry
}

// NewMemoryDataMap returns an empty data map with the given signatures.
func NewMemoryDataMap(keyType, valueType types.TupleType) *MemoryDataMap {
	return &MemoryDataMap{
		keyType:   keyType,
		valueType: valueType,
		entries:   make(map[string]entry),
	}
}

// KeyType returns the signature admitting every entry key.
func (m *MemoryDataMap) KeyType() types.TupleType {
	return m.keyType
}

// ValueType returns the signature admitting every entry value.
func (m *MemoryDataMap) ValueType() types.TupleType {
	return m.valueType
}

func (m *MemoryDataMap) FetchEntry(ctx context.Context, key types.Value) (types.Value, error) {
	if !m.keyType.Admits(key) {
		return nil, &TypeError{Expected: m.keyType, Actual: key}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return nil, err
	}
	e, ok := m.entries[hash.String()]
	if !ok {
		return types.Void{}, nil
	}
	return e.value, nil
}

func (m *MemoryDataMap) SetEntry(ctx context.Context, key, value types.Value) error {
	if !m.keyType.Admits(key) {
		return &TypeError{Expected: m.keyType, Actual: key}
	}
	if !m.valueType.Admits(value) {
		return &TypeError{Expected: m.valueType, Actual: value}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return err
	}
	m.entries[hash.String()] = entry{key: key, value: value}
	return nil
}

func (m *MemoryDataMap) InsertEntry(ctx context.Context, key, value types.Value) (bool, error) {
	if !m.keyType.Admits(key) {
		return false, &TypeError{Expected: m.keyType, Actual: key}
	}
	if !m.valueType.Admits(value) {
		return false, &TypeError{Expected: m.valueType, Actual: value}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return false, err
	}
	if _, ok := m.entries[hash.String()]; ok {
		return false, nil
	}
	m.entries[hash.String()] = entry{key: key, value: value}
	return true, nil
}

func (m *MemoryDataMap) DeleteEntry(ctx context.Context, key types.Value) (bool, error) {
	if !m.keyType.Admits(key) {
		return false, &TypeError{Expected: m.keyType, Actual: key}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return false, err
	}
	if _, ok := m.entries[hash.String()]; !ok {
		return false, nil
	}
	delete(m.entries, hash.String())
	return true, nil
}

// MemoryContractDatabase is the in-memory contract database.
type MemoryContractDatabase struct {
	maps map[string]*MemoryDataMap
}

// NewMemoryContractDatabase returns an empty contract database.
func NewMemoryContractDatabase() *MemoryContractDatabase {
	return &MemoryContractDatabase{
		maps: make(map[string]*MemoryDataMap),
	}
}

func (db *MemoryContractDatabase) GetDataMap(name string) (DataMapReader, bool) {
	m, ok := db.maps[name]
	if !ok {
		return nil, false
	}
	return m, true
}

func (db *MemoryContractDatabase) GetMutDataMap(name string) (DataMap, bool) {
	m, ok := db.maps[name]
	if !ok {
		return nil, false
	}
	return m, true
}

// CreateMap installs a fresh empty map under name. Recreating an existing
// name discards the previous map and all of its entries.
func (db *MemoryContractDatabase) CreateMap(ctx context.Context, name string, keyType, valueType types.TupleType) error {
	db.maps[name] = NewMemoryDataMap(keyType, valueType)
	return nil
}
