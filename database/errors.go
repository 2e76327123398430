package database

import (
	"fmt"

	"github.com/rodent-software/contractdb/types"
)

// TypeError is returned when a key or value fails admission against the
// signature of its data map. It is the only recoverable error kind raised
// by map operations; the execution engine translates it into a contract
// level failure.
type TypeError struct {
	// Expected is the signature that was violated.
	Expected types.TypeSignature
	// Actual is the offending value.
	Actual types.Value
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: expected %s, found %s", e.Expected, e.Actual)
}
