package codec

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rodent-software/contractdb/object"
	"github.com/rodent-software/contractdb/types"
)

type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{bufio.NewReader(r)}
}

func (d *Decoder) Decode() (any, error) {
	kind, err := d.peekKind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindDatabase:
		return d.DecodeDatabase()
	case kindMap:
		return d.DecodeMap()
	case kindEntry:
		return d.DecodeEntry()
	case kindString:
		return d.DecodeString()
	case kindVoid, kindBool, kindInt, kindBuffer, kindPrincipal, kindTuple:
		return d.DecodeValue()
	case kindIntType, kindBoolType, kindBufferType, kindPrincipalType, kindTupleType:
		return d.DecodeSignature()
	default:
		return nil, fmt.Errorf("invalid codec kind %x", kind)
	}
}

func (d *Decoder) DecodeValue() (types.Value, error) {
	kind, err := d.peekKind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindVoid:
		_, err = d.r.ReadByte()
		return types.Void{}, err
	case kindBool:
		return d.DecodeBool()
	case kindInt:
		return d.DecodeInt()
	case kindBuffer:
		return d.DecodeBuffer()
	case kindPrincipal:
		return d.DecodePrincipal()
	case kindTuple:
		return d.DecodeTuple()
	default:
		return nil, fmt.Errorf("invalid value kind %x", kind)
	}
}

func (d *Decoder) DecodeBool() (types.Bool, error) {
	err := d.expectKind(kindBool)
	if err != nil {
		return false, err
	}
	value, err := d.r.ReadByte()
	if err != nil {
		return false, err
	}
	return types.Bool(value != 0), nil
}

func (d *Decoder) DecodeInt() (types.Int, error) {
	err := d.expectKind(kindInt)
	if err != nil {
		return 0, err
	}
	value, err := d.readUint64()
	if err != nil {
		return 0, err
	}
	return types.Int(value), nil
}

func (d *Decoder) DecodeBuffer() (types.Buffer, error) {
	err := d.expectKind(kindBuffer)
	if err != nil {
		return nil, err
	}
	value, err := d.readBytes()
	if err != nil {
		return nil, err
	}
	return types.Buffer(value), nil
}

func (d *Decoder) DecodePrincipal() (types.Principal, error) {
	err := d.expectKind(kindPrincipal)
	if err != nil {
		return "", err
	}
	value, err := d.readBytes()
	if err != nil {
		return "", err
	}
	return types.Principal(value), nil
}

func (d *Decoder) DecodeTuple() (types.Tuple, error) {
	err := d.expectKind(kindTuple)
	if err != nil {
		return nil, err
	}
	size, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	value := make(types.Tuple, size)
	for i := 0; i < int(size); i++ {
		name, err := d.DecodeString()
		if err != nil {
			return nil, err
		}
		field, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		value[name] = field
	}
	return value, nil
}

func (d *Decoder) DecodeString() (string, error) {
	err := d.expectKind(kindString)
	if err != nil {
		return "", err
	}
	value, err := d.readBytes()
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (d *Decoder) DecodeSignature() (types.TypeSignature, error) {
	kind, err := d.peekKind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindIntType:
		_, err = d.r.ReadByte()
		return types.IntType{}, err
	case kindBoolType:
		_, err = d.r.ReadByte()
		return types.BoolType{}, err
	case kindBufferType:
		_, err = d.r.ReadByte()
		return types.BufferType{}, err
	case kindPrincipalType:
		_, err = d.r.ReadByte()
		return types.PrincipalType{}, err
	case kindTupleType:
		return d.DecodeTupleType()
	default:
		return nil, fmt.Errorf("invalid signature kind %x", kind)
	}
}

func (d *Decoder) DecodeTupleType() (types.TupleType, error) {
	err := d.expectKind(kindTupleType)
	if err != nil {
		return types.TupleType{}, err
	}
	size, err := d.readUint64()
	if err != nil {
		return types.TupleType{}, err
	}
	fields := make(map[string]types.TypeSignature, size)
	for i := 0; i < int(size); i++ {
		name, err := d.DecodeString()
		if err != nil {
			return types.TupleType{}, err
		}
		sig, err := d.DecodeSignature()
		if err != nil {
			return types.TupleType{}, err
		}
		fields[name] = sig
	}
	return types.TupleType{Fields: fields}, nil
}

func (d *Decoder) DecodeEntry() (object.Entry, error) {
	err := d.expectKind(kindEntry)
	if err != nil {
		return object.Entry{}, err
	}
	key, err := d.DecodeValue()
	if err != nil {
		return object.Entry{}, err
	}
	value, err := d.DecodeValue()
	if err != nil {
		return object.Entry{}, err
	}
	return object.Entry{Key: key, Value: value}, nil
}

func (d *Decoder) DecodeMap() (*object.Map, error) {
	err := d.expectKind(kindMap)
	if err != nil {
		return nil, err
	}
	keyType, err := d.DecodeTupleType()
	if err != nil {
		return nil, err
	}
	valueType, err := d.DecodeTupleType()
	if err != nil {
		return nil, err
	}
	size, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	entries := make([]object.Entry, size)
	for i := 0; i < int(size); i++ {
		entry, err := d.DecodeEntry()
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return &object.Map{
		KeyType:   keyType,
		ValueType: valueType,
		Entries:   entries,
	}, nil
}

func (d *Decoder) DecodeDatabase() (*object.Database, error) {
	err := d.expectKind(kindDatabase)
	if err != nil {
		return nil, err
	}
	size, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	maps := make(map[string]*object.Map, size)
	for i := 0; i < int(size); i++ {
		name, err := d.DecodeString()
		if err != nil {
			return nil, err
		}
		value, err := d.DecodeMap()
		if err != nil {
			return nil, err
		}
		maps[name] = value
	}
	return &object.Database{Maps: maps}, nil
}

func (d *Decoder) peekKind() (byte, error) {
	kind, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	err = d.r.UnreadByte()
	if err != nil {
		return 0, err
	}
	return kind, nil
}

func (d *Decoder) expectKind(expect byte) error {
	kind, err := d.r.ReadByte()
	if err != nil {
		return err
	}
	if kind != expect {
		return fmt.Errorf("unexpected codec kind %x", kind)
	}
	return nil
}

func (d *Decoder) readBytes() ([]byte, error) {
	size, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	value := make([]byte, size)
	_, err = io.ReadFull(d.r, value)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (d *Decoder) readUint64() (uint64, error) {
	result := uint64(0)
	for i := 0; i < 8; i++ {
		b, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b) << (i * 8)
	}
	return result, nil
}
