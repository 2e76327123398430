package types

import (
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// prelude declares the scalars available to schema authors in addition to
// the GraphQL builtins Int and Boolean.
const prelude = `
scalar Principal
scalar Buffer
`

// ParseSchema parses a GraphQL SDL source into named tuple signatures.
//
// Every object type becomes a TupleType: scalar fields map to atom
// signatures and object-typed fields become nested tuples. List fields are
// rejected, and non-null markers are ignored because tuple admission
// already requires every declared field.
func ParseSchema(source string) (map[string]TupleType, error) {
	preludeSource := ast.Source{Name: "prelude.graphql", Input: prelude}
	inputSource := ast.Source{Name: "schema.graphql", Input: source}
	schema, err := gqlparser.LoadSchema(&preludeSource, &inputSource)
	if err != nil {
		return nil, err
	}
	signatures := make(map[string]TupleType)
	for _, d := range schema.Types {
		if d.BuiltIn || d.Kind != ast.Object {
			continue
		}
		sig, err := tupleSignature(schema, d, map[string]bool{d.Name: true})
		if err != nil {
			return nil, err
		}
		signatures[d.Name] = sig
	}
	return signatures, nil
}

func tupleSignature(schema *ast.Schema, d *ast.Definition, seen map[string]bool) (TupleType, error) {
	fields := make(map[string]TypeSignature, len(d.Fields))
	for _, field := range d.Fields {
		sig, err := fieldSignature(schema, field, seen)
		if err != nil {
			return TupleType{}, err
		}
		fields[field.Name] = sig
	}
	return TupleType{Fields: fields}, nil
}

func fieldSignature(schema *ast.Schema, field *ast.FieldDefinition, seen map[string]bool) (TypeSignature, error) {
	if field.Type.Elem != nil {
		return nil, fmt.Errorf("list field %s is not a valid tuple field", field.Name)
	}
	name := field.Type.NamedType
	switch name {
	case "Int":
		return IntType{}, nil
	case "Boolean":
		return BoolType{}, nil
	case "Buffer":
		return BufferType{}, nil
	case "Principal":
		return PrincipalType{}, nil
	}
	def, ok := schema.Types[name]
	if !ok || def.Kind != ast.Object {
		return nil, fmt.Errorf("field %s has unsupported type %s", field.Name, name)
	}
	if seen[name] {
		return nil, fmt.Errorf("field %s creates a recursive tuple type %s", field.Name, name)
	}
	seen[name] = true
	sig, err := tupleSignature(schema, def, seen)
	delete(seen, name)
	if err != nil {
		return nil, err
	}
	return sig, nil
}
