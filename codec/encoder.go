package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/rodent-software/contractdb/object"
	"github.com/rodent-software/contractdb/types"
)

type Encoder struct {
	w *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{bufio.NewWriter(w)}
}

func (e *Encoder) Flush() error {
	return e.w.Flush()
}

func (e *Encoder) Encode(value any) error {
	switch t := value.(type) {
	case *object.Database:
		return e.EncodeDatabase(t)
	case *object.Map:
		return e.EncodeMap(t)
	case object.Entry:
		return e.EncodeEntry(t)
	case types.Value:
		return e.EncodeValue(t)
	case types.TypeSignature:
		return e.EncodeSignature(t)
	case string:
		return e.EncodeString(t)
	default:
		return fmt.Errorf("no encoder for %T", value)
	}
}

func (e *Encoder) EncodeValue(value types.Value) error {
	switch t := value.(type) {
	case types.Void:
		return e.w.WriteByte(kindVoid)
	case types.Bool:
		return e.EncodeBool(t)
	case types.Int:
		return e.EncodeInt(t)
	case types.Buffer:
		return e.EncodeBuffer(t)
	case types.Principal:
		return e.EncodePrincipal(t)
	case types.Tuple:
		return e.EncodeTuple(t)
	default:
		return fmt.Errorf("no encoder for value %T", value)
	}
}

func (e *Encoder) EncodeBool(value types.Bool) error {
	err := e.w.WriteByte(kindBool)
	if err != nil {
		return err
	}
	if value {
		return e.w.WriteByte(1)
	}
	return e.w.WriteByte(0)
}

func (e *Encoder) EncodeInt(value types.Int) error {
	err := e.w.WriteByte(kindInt)
	if err != nil {
		return err
	}
	return e.writeUint64(uint64(value))
}

func (e *Encoder) EncodeBuffer(value types.Buffer) error {
	err := e.w.WriteByte(kindBuffer)
	if err != nil {
		return err
	}
	err = e.writeUint64(uint64(len(value)))
	if err != nil {
		return err
	}
	_, err = e.w.Write(value)
	return err
}

func (e *Encoder) EncodePrincipal(value types.Principal) error {
	err := e.w.WriteByte(kindPrincipal)
	if err != nil {
		return err
	}
	err = e.writeUint64(uint64(len(value)))
	if err != nil {
		return err
	}
	_, err = e.w.Write([]byte(value))
	return err
}

func (e *Encoder) EncodeTuple(value types.Tuple) error {
	err := e.w.WriteByte(kindTuple)
	if err != nil {
		return err
	}
	err = e.writeUint64(uint64(len(value)))
	if err != nil {
		return err
	}
	for _, name := range value.FieldNames() {
		err = e.EncodeString(name)
		if err != nil {
			return err
		}
		err = e.EncodeValue(value[name])
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) EncodeString(value string) error {
	err := e.w.WriteByte(kindString)
	if err != nil {
		return err
	}
	err = e.writeUint64(uint64(len(value)))
	if err != nil {
		return err
	}
	_, err = e.w.Write([]byte(value))
	return err
}

func (e *Encoder) EncodeSignature(sig types.TypeSignature) error {
	switch t := sig.(type) {
	case types.IntType:
		return e.w.WriteByte(kindIntType)
	case types.BoolType:
		return e.w.WriteByte(kindBoolType)
	case types.BufferType:
		return e.w.WriteByte(kindBufferType)
	case types.PrincipalType:
		return e.w.WriteByte(kindPrincipalType)
	case types.TupleType:
		return e.EncodeTupleType(t)
	default:
		return fmt.Errorf("no encoder for signature %T", sig)
	}
}

func (e *Encoder) EncodeTupleType(sig types.TupleType) error {
	err := e.w.WriteByte(kindTupleType)
	if err != nil {
		return err
	}
	err = e.writeUint64(uint64(len(sig.Fields)))
	if err != nil {
		return err
	}
	for _, name := range sig.FieldNames() {
		err = e.EncodeString(name)
		if err != nil {
			return err
		}
		err = e.EncodeSignature(sig.Fields[name])
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) EncodeEntry(value object.Entry) error {
	err := e.w.WriteByte(kindEntry)
	if err != nil {
		return err
	}
	err = e.EncodeValue(value.Key)
	if err != nil {
		return err
	}
	return e.EncodeValue(value.Value)
}

func (e *Encoder) EncodeMap(value *object.Map) error {
	err := e.w.WriteByte(kindMap)
	if err != nil {
		return err
	}
	err = e.EncodeTupleType(value.KeyType)
	if err != nil {
		return err
	}
	err = e.EncodeTupleType(value.ValueType)
	if err != nil {
		return err
	}
	err = e.writeUint64(uint64(len(value.Entries)))
	if err != nil {
		return err
	}
	for _, entry := range value.Entries {
		err = e.EncodeEntry(entry)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) EncodeDatabase(value *object.Database) error {
	err := e.w.WriteByte(kindDatabase)
	if err != nil {
		return err
	}
	err = e.writeUint64(uint64(len(value.Maps)))
	if err != nil {
		return err
	}
	names := make([]string, 0, len(value.Maps))
	for name := range value.Maps {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		err = e.EncodeString(name)
		if err != nil {
			return err
		}
		err = e.EncodeMap(value.Maps[name])
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeUint64(value uint64) error {
	for i := 0; i < 8; i++ {
		err := e.w.WriteByte(byte(value >> (i * 8)))
		if err != nil {
			return err
		}
	}
	return nil
}

// CanonicalBytes returns the canonical encoding of the given value.
func CanonicalBytes(value types.Value) ([]byte, error) {
	var buffer bytes.Buffer
	enc := NewEncoder(&buffer)
	if err := enc.EncodeValue(value); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
