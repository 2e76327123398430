package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/rodent-software/contractdb/object"
	"github.com/rodent-software/contractdb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKeyType = types.TupleType{Fields: map[string]types.TypeSignature{
		"owner": types.PrincipalType{},
	}}
	testValueType = types.TupleType{Fields: map[string]types.TypeSignature{
		"amount": types.IntType{},
	}}
)

var testInput = []any{
	types.Void{},
	types.Bool(true),
	types.Bool(false),
	types.Int(math.MaxInt64),
	types.Int(math.MinInt64),
	types.Buffer{},
	types.Buffer{0, 1, 2, 3},
	types.Principal("alice"),
	types.Tuple{},
	types.Tuple{"owner": types.Principal("alice"), "amount": types.Int(100)},
	types.Tuple{"id": types.Tuple{"owner": types.Principal("bob")}},
	"balances",
	types.IntType{},
	types.BoolType{},
	types.BufferType{},
	types.PrincipalType{},
	testKeyType,
	types.TupleType{Fields: map[string]types.TypeSignature{
		"id":     testKeyType,
		"active": types.BoolType{},
	}},
	object.Entry{
		Key:   types.Tuple{"owner": types.Principal("alice")},
		Value: types.Tuple{"amount": types.Int(100)},
	},
	&object.Map{
		KeyType:   testKeyType,
		ValueType: testValueType,
		Entries: []object.Entry{{
			Key:   types.Tuple{"owner": types.Principal("alice")},
			Value: types.Tuple{"amount": types.Int(100)},
		}},
	},
	&object.Database{
		Maps: map[string]*object.Map{
			"balances": {
				KeyType:   testKeyType,
				ValueType: testValueType,
				Entries:   []object.Entry{},
			},
		},
	},
}

func TestEncodeDecode(t *testing.T) {
	var buffer bytes.Buffer
	enc := NewEncoder(&buffer)
	dec := NewDecoder(&buffer)

	for _, expect := range testInput {
		buffer.Reset()

		err := enc.Encode(expect)
		require.NoError(t, err)

		err = enc.Flush()
		require.NoError(t, err)

		actual, err := dec.Decode()
		require.NoError(t, err)

		assert.Equal(t, expect, actual)
	}
}

func TestCanonicalBytesIgnoresFieldOrder(t *testing.T) {
	a, err := CanonicalBytes(types.Tuple{"owner": types.Principal("alice"), "amount": types.Int(1)})
	require.NoError(t, err)

	b, err := CanonicalBytes(types.Tuple{"amount": types.Int(1), "owner": types.Principal("alice")})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCanonicalBytesDistinguishesValues(t *testing.T) {
	a, err := CanonicalBytes(types.Tuple{"amount": types.Int(1)})
	require.NoError(t, err)

	b, err := CanonicalBytes(types.Tuple{"amount": types.Int(2)})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
