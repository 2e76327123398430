package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/rodent-software/contractdb/codec"
	"github.com/rodent-software/contractdb/object"
	"github.com/rodent-software/contractdb/types"
)

var (
	// schemasBucket maps data map names to their encoded signatures.
	schemasBucket = []byte("schemas")
	// mapsBucket holds one nested bucket per data map, keyed by name,
	// mapping canonical key hashes to encoded entries.
	mapsBucket = []byte("maps")
)

// BoltContractDatabase is the durable contract database, backed by a bbolt
// file. It implements the same contracts as MemoryContractDatabase: each
// entry operation runs in a single bbolt transaction, so validation always
// completes before any bytes are written.
type BoltContractDatabase struct {
	db   *bolt.DB
	maps map[string]*boltSchema
	log  *logrus.Entry
}

type boltSchema struct {
	keyType   types.TupleType
	valueType types.TupleType
}

// OpenBolt opens or creates a durable contract database at the given path.
// Map signatures are small and immutable, so they are cached in memory for
// the lifetime of the handle; entries are read and written through bbolt.
func OpenBolt(path string) (*BoltContractDatabase, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	maps := make(map[string]*boltSchema)
	err = db.Update(func(tx *bolt.Tx) error {
		schemas, err := tx.CreateBucketIfNotExists(schemasBucket)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(mapsBucket); err != nil {
			return err
		}
		return schemas.ForEach(func(name, data []byte) error {
			snapshot, err := codec.NewDecoder(bytes.NewReader(data)).DecodeMap()
			if err != nil {
				return fmt.Errorf("decode schema for map %s: %w", name, err)
			}
			maps[string(name)] = &boltSchema{
				keyType:   snapshot.KeyType,
				valueType: snapshot.ValueType,
			}
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	log := logrus.WithField("path", path)
	log.WithField("maps", len(maps)).Debug("opened contract database")
	return &BoltContractDatabase{
		db:   db,
		maps: maps,
		log:  log,
	}, nil
}

// Close releases the underlying bbolt file.
func (b *BoltContractDatabase) Close() error {
	b.log.Debug("closing contract database")
	return b.db.Close()
}

func (b *BoltContractDatabase) GetDataMap(name string) (DataMapReader, bool) {
	schema, ok := b.maps[name]
	if !ok {
		return nil, false
	}
	return &BoltDataMap{db: b.db, name: []byte(name), schema: schema}, true
}

func (b *BoltContractDatabase) GetMutDataMap(name string) (DataMap, bool) {
	schema, ok := b.maps[name]
	if !ok {
		return nil, false
	}
	return &BoltDataMap{db: b.db, name: []byte(name), schema: schema}, true
}

// CreateMap installs a fresh empty map under name, discarding any existing
// map of that name along with its entries.
func (b *BoltContractDatabase) CreateMap(ctx context.Context, name string, keyType, valueType types.TupleType) error {
	var buffer bytes.Buffer
	enc := codec.NewEncoder(&buffer)
	err := enc.EncodeMap(&object.Map{
		KeyType:   keyType,
		ValueType: valueType,
		Entries:   []object.Entry{},
	})
	if err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(schemasBucket).Put([]byte(name), buffer.Bytes()); err != nil {
			return err
		}
		maps := tx.Bucket(mapsBucket)
		err := maps.DeleteBucket([]byte(name))
		if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err = maps.CreateBucket([]byte(name))
		return err
	})
	if err != nil {
		return err
	}
	b.maps[name] = &boltSchema{keyType: keyType, valueType: valueType}
	b.log.WithField("name", name).Debug("created data map")
	return nil
}

// Snapshot returns the serialized form of the whole database in the same
// shape the in-memory backend produces.
func (b *BoltContractDatabase) Snapshot(ctx context.Context) (*object.Database, error) {
	snapshot := &object.Database{Maps: make(map[string]*object.Map, len(b.maps))}
	err := b.db.View(func(tx *bolt.Tx) error {
		maps := tx.Bucket(mapsBucket)
		for name, schema := range b.maps {
			bucket := maps.Bucket([]byte(name))
			if bucket == nil {
				return fmt.Errorf("missing bucket for map %s", name)
			}
			snap := &object.Map{
				KeyType:   schema.keyType,
				ValueType: schema.valueType,
				Entries:   []object.Entry{},
			}
			err := bucket.ForEach(func(_, data []byte) error {
				entry, err := codec.NewDecoder(bytes.NewReader(data)).DecodeEntry()
				if err != nil {
					return err
				}
				snap.Entries = append(snap.Entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
			snapshot.Maps[name] = snap
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// BoltDataMap is a handle to a single data map inside a bbolt database.
type BoltDataMap struct {
	db     *bolt.DB
	name   []byte
	schema *boltSchema
}

// KeyType returns the signature admitting every entry key.
func (m *BoltDataMap) KeyType() types.TupleType {
	return m.schema.keyType
}

// ValueType returns the signature admitting every entry value.
func (m *BoltDataMap) ValueType() types.TupleType {
	return m.schema.valueType
}

func (m *BoltDataMap) FetchEntry(ctx context.Context, key types.Value) (types.Value, error) {
	if !m.schema.keyType.Admits(key) {
		return nil, &TypeError{Expected: m.schema.keyType, Actual: key}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return nil, err
	}
	var value types.Value = types.Void{}
	err = m.db.View(func(tx *bolt.Tx) error {
		data := m.bucket(tx).Get(hash)
		if data == nil {
			return nil
		}
		entry, err := codec.NewDecoder(bytes.NewReader(data)).DecodeEntry()
		if err != nil {
			return err
		}
		value = entry.Value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (m *BoltDataMap) SetEntry(ctx context.Context, key, value types.Value) error {
	if !m.schema.keyType.Admits(key) {
		return &TypeError{Expected: m.schema.keyType, Actual: key}
	}
	if !m.schema.valueType.Admits(value) {
		return &TypeError{Expected: m.schema.valueType, Actual: value}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return err
	}
	data, err := encodeEntry(object.Entry{Key: key, Value: value})
	if err != nil {
		return err
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return m.bucket(tx).Put(hash, data)
	})
}

func (m *BoltDataMap) InsertEntry(ctx context.Context, key, value types.Value) (bool, error) {
	if !m.schema.keyType.Admits(key) {
		return false, &TypeError{Expected: m.schema.keyType, Actual: key}
	}
	if !m.schema.valueType.Admits(value) {
		return false, &TypeError{Expected: m.schema.valueType, Actual: value}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return false, err
	}
	data, err := encodeEntry(object.Entry{Key: key, Value: value})
	if err != nil {
		return false, err
	}
	inserted := false
	err = m.db.Update(func(tx *bolt.Tx) error {
		bucket := m.bucket(tx)
		if bucket.Get(hash) != nil {
			return nil
		}
		inserted = true
		return bucket.Put(hash, data)
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (m *BoltDataMap) DeleteEntry(ctx context.Context, key types.Value) (bool, error) {
	if !m.schema.keyType.Admits(key) {
		return false, &TypeError{Expected: m.schema.keyType, Actual: key}
	}
	hash, err := canonicalKey(key)
	if err != nil {
		return false, err
	}
	deleted := false
	err = m.db.Update(func(tx *bolt.Tx) error {
		bucket := m.bucket(tx)
		if bucket.Get(hash) == nil {
			return nil
		}
		deleted = true
		return bucket.Delete(hash)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (m *BoltDataMap) bucket(tx *bolt.Tx) *bolt.Bucket {
	return tx.Bucket(mapsBucket).Bucket(m.name)
}

func encodeEntry(entry object.Entry) ([]byte, error) {
	var buffer bytes.Buffer
	enc := codec.NewEncoder(&buffer)
	if err := enc.EncodeEntry(entry); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
