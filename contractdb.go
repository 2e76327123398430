// Package contractdb provides the persistent state abstraction for a
// smart contract execution environment: named, schema-typed data maps that
// contract code reads and writes during execution.
package contractdb

import (
	"context"
	"io"

	"github.com/rodent-software/contractdb/database"
)

// New returns an empty in-memory contract database.
func New() *database.MemoryContractDatabase {
	return database.NewMemoryContractDatabase()
}

// Open opens or creates a durable contract database at the given path.
func Open(path string) (*database.BoltContractDatabase, error) {
	return database.OpenBolt(path)
}

// Restore reads a serialized contract database from r. The restored
// database has the same map names, signatures, and entries as the database
// that was serialized.
func Restore(ctx context.Context, r io.Reader) (*database.MemoryContractDatabase, error) {
	return database.Restore(ctx, r)
}
