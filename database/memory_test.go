package database

import (
	"context"
	"errors"
	"testing"

	"github.com/rodent-software/contractdb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	balanceKeyType = types.TupleType{Fields: map[string]types.TypeSignature{
		"owner": types.PrincipalType{},
	}}
	balanceValueType = types.TupleType{Fields: map[string]types.TypeSignature{
		"amount": types.IntType{},
	}}
)

func ownerKey(name string) types.Tuple {
	return types.Tuple{"owner": types.Principal(name)}
}

func amountValue(amount int64) types.Tuple {
	return types.Tuple{"amount": types.Int(amount)}
}

func newBalancesDatabase(t *testing.T) ContractDatabase {
	db := NewMemoryContractDatabase()
	err := db.CreateMap(context.Background(), "balances", balanceKeyType, balanceValueType)
	require.NoError(t, err)
	return db
}

func TestGetDataMap(t *testing.T) {
	db := newBalancesDatabase(t)

	reader, ok := db.GetDataMap("balances")
	assert.True(t, ok)
	assert.NotNil(t, reader)

	writer, ok := db.GetMutDataMap("balances")
	assert.True(t, ok)
	assert.NotNil(t, writer)

	_, ok = db.GetDataMap("allowances")
	assert.False(t, ok)

	_, ok = db.GetMutDataMap("allowances")
	assert.False(t, ok)
}

func TestFetchEntryMissingReturnsVoid(t *testing.T) {
	ctx := context.Background()
	db := newBalancesDatabase(t)

	reader, ok := db.GetDataMap("balances")
	require.True(t, ok)

	value, err := reader.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Void{}, value)
}

func TestSetFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newBalancesDatabase(t)

	m, ok := db.GetMutDataMap("balances")
	require.True(t, ok)

	err := m.SetEntry(ctx, ownerKey("alice"), amountValue(100))
	require.NoError(t, err)

	value, err := m.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Value(amountValue(100)), value)

	// tuple keys compare by contents, not construction order
	value, err = m.FetchEntry(ctx, types.Tuple{"owner": types.Principal("alice")})
	require.NoError(t, err)
	assert.Equal(t, types.Value(amountValue(100)), value)
}

func TestBalancesScenario(t *testing.T) {
	ctx := context.Background()
	db := newBalancesDatabase(t)

	m, ok := db.GetMutDataMap("balances")
	require.True(t, ok)

	inserted, err := m.InsertEntry(ctx, ownerKey("alice"), amountValue(100))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = m.InsertEntry(ctx, ownerKey("alice"), amountValue(5))
	require.NoError(t, err)
	assert.False(t, inserted)

	value, err := m.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Value(amountValue(100)), value)

	err = m.SetEntry(ctx, ownerKey("alice"), amountValue(5))
	require.NoError(t, err)

	value, err = m.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Value(amountValue(5)), value)

	deleted, err := m.DeleteEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.True(t, deleted)

	value, err = m.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Void{}, value)

	deleted, err = m.DeleteEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestInsertAgainAfterDelete(t *testing.T) {
	ctx := context.Background()
	db := newBalancesDatabase(t)

	m, ok := db.GetMutDataMap("balances")
	require.True(t, ok)

	inserted, err := m.InsertEntry(ctx, ownerKey("alice"), amountValue(1))
	require.NoError(t, err)
	assert.True(t, inserted)

	deleted, err := m.DeleteEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.True(t, deleted)

	inserted, err = m.InsertEntry(ctx, ownerKey("alice"), amountValue(2))
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestTypeErrorLeavesMapUnchanged(t *testing.T) {
	ctx := context.Background()
	db := newBalancesDatabase(t)

	m, ok := db.GetMutDataMap("balances")
	require.True(t, ok)

	err := m.SetEntry(ctx, ownerKey("alice"), amountValue(100))
	require.NoError(t, err)

	badKey := types.Tuple{"holder": types.Principal("alice")}
	badValue := types.Tuple{"amount": types.Bool(true)}

	_, err = m.FetchEntry(ctx, badKey)
	requireTypeError(t, err, balanceKeyType)

	err = m.SetEntry(ctx, badKey, amountValue(5))
	requireTypeError(t, err, balanceKeyType)

	err = m.SetEntry(ctx, ownerKey("alice"), badValue)
	requireTypeError(t, err, balanceValueType)

	_, err = m.InsertEntry(ctx, ownerKey("bob"), badValue)
	requireTypeError(t, err, balanceValueType)

	_, err = m.DeleteEntry(ctx, badKey)
	requireTypeError(t, err, balanceKeyType)

	// the one stored entry is untouched and no others were created
	value, err := m.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Value(amountValue(100)), value)

	value, err = m.FetchEntry(ctx, ownerKey("bob"))
	require.NoError(t, err)
	assert.Equal(t, types.Void{}, value)
}

func requireTypeError(t *testing.T, err error, expected types.TypeSignature) {
	t.Helper()
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, expected, typeErr.Expected)
}

func TestCreateMapOverwriteDiscardsEntries(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryContractDatabase()

	require.NoError(t, db.CreateMap(ctx, "balances", balanceKeyType, balanceValueType))
	require.NoError(t, db.CreateMap(ctx, "allowances", balanceKeyType, balanceValueType))

	balances, ok := db.GetMutDataMap("balances")
	require.True(t, ok)
	require.NoError(t, balances.SetEntry(ctx, ownerKey("alice"), amountValue(100)))

	allowances, ok := db.GetMutDataMap("allowances")
	require.True(t, ok)
	require.NoError(t, allowances.SetEntry(ctx, ownerKey("alice"), amountValue(50)))

	// recreating a name resets it, other maps are unaffected
	require.NoError(t, db.CreateMap(ctx, "balances", balanceKeyType, balanceValueType))

	balances, ok = db.GetMutDataMap("balances")
	require.True(t, ok)
	value, err := balances.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Void{}, value)

	value, err = allowances.FetchEntry(ctx, ownerKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, types.Value(amountValue(50)), value)
}

func TestTypeErrorMessage(t *testing.T) {
	err := &TypeError{Expected: balanceKeyType, Actual: types.Int(1)}
	assert.Equal(t, "type error: expected (tuple (owner principal)), found 1", err.Error())
	assert.True(t, errors.As(error(err), new(*TypeError)))
}
