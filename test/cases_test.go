package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodent-software/contractdb/database"
	"github.com/rodent-software/contractdb/types"
)

func TestMemoryCases(t *testing.T) {
	runCases(t, func(t *testing.T) database.ContractDatabase {
		return database.NewMemoryContractDatabase()
	})
}

func TestBoltCases(t *testing.T) {
	runCases(t, func(t *testing.T) database.ContractDatabase {
		db, err := database.OpenBolt(filepath.Join(t.TempDir(), "contract.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return db
	})
}

func runCases(t *testing.T, open func(t *testing.T) database.ContractDatabase) {
	paths, err := TestCasePaths()
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			testCase, err := LoadTestCase(path)
			require.NoError(t, err)
			runCase(t, open(t), testCase)
		})
	}
}

func runCase(t *testing.T, db database.ContractDatabase, testCase *TestCase) {
	ctx := context.Background()

	signatures, err := types.ParseSchema(testCase.Schema)
	require.NoError(t, err)

	createMap := func(def MapDef) {
		keyType, ok := signatures[def.Key]
		require.True(t, ok, "no signature named %s", def.Key)
		valueType, ok := signatures[def.Value]
		require.True(t, ok, "no signature named %s", def.Value)
		require.NoError(t, db.CreateMap(ctx, def.Name, keyType, valueType))
	}
	for _, def := range testCase.Maps {
		createMap(def)
	}

	for i, op := range testCase.Operations {
		if op.Op == "create" {
			createMap(MapDef{Name: op.Map, Key: op.Key["type"].(string), Value: op.Value["type"].(string)})
			continue
		}

		m, ok := db.GetMutDataMap(op.Map)
		require.True(t, ok, "operation %d: no map named %s", i, op.Map)

		key, err := TupleValue(op.Key)
		require.NoError(t, err, "operation %d", i)

		switch op.Op {
		case "fetch":
			value, err := m.FetchEntry(ctx, key)
			if op.Error {
				requireTypeError(t, err, i)
				continue
			}
			require.NoError(t, err, "operation %d", i)
			if op.Void {
				assert.Equal(t, types.Void{}, value, "operation %d", i)
				continue
			}
			expect, convErr := TupleValue(op.Expect.(map[string]any))
			require.NoError(t, convErr, "operation %d", i)
			assert.True(t, expect.Equal(value), "operation %d: expected %s, found %s", i, expect, value)

		case "set":
			value, convErr := TupleValue(op.Value)
			require.NoError(t, convErr, "operation %d", i)
			err := m.SetEntry(ctx, key, value)
			if op.Error {
				requireTypeError(t, err, i)
				continue
			}
			require.NoError(t, err, "operation %d", i)

		case "insert":
			value, convErr := TupleValue(op.Value)
			require.NoError(t, convErr, "operation %d", i)
			inserted, err := m.InsertEntry(ctx, key, value)
			if op.Error {
				requireTypeError(t, err, i)
				continue
			}
			require.NoError(t, err, "operation %d", i)
			assert.Equal(t, op.Expect, inserted, "operation %d", i)

		case "delete":
			deleted, err := m.DeleteEntry(ctx, key)
			if op.Error {
				requireTypeError(t, err, i)
				continue
			}
			require.NoError(t, err, "operation %d", i)
			assert.Equal(t, op.Expect, deleted, "operation %d", i)

		default:
			t.Fatalf("operation %d: unknown op %s", i, op.Op)
		}
	}
}

func requireTypeError(t *testing.T, err error, i int) {
	t.Helper()
	var typeErr *database.TypeError
	require.ErrorAs(t, err, &typeErr, "operation %d", i)
}
