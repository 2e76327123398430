// Package test runs yaml scenario cases against every database backend.
package test

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rodent-software/contractdb/types"
)

//go:embed cases
var casesFS embed.FS

type TestCase struct {
	// Schema is the SDL source defining the tuple signatures for this case.
	Schema string
	// Maps lists the data maps to create before running operations.
	Maps []MapDef
	// Operations is the script of map operations and expectations.
	Operations []Operation
}

type MapDef struct {
	// Name is the data map name.
	Name string
	// Key and Value name tuple signatures from the schema.
	Key   string
	Value string
}

type Operation struct {
	// Op is one of fetch, set, insert, delete, or create.
	Op string
	// Map is the data map the operation targets.
	Map string
	// Key and Value are tuple literals.
	Key   map[string]any
	Value map[string]any
	// Expect is the expected result: a bool for insert and delete, or a
	// tuple literal for fetch.
	Expect any
	// Void expects fetch to return the void value.
	Void bool
	// Error expects the operation to fail with a type error.
	Error bool
}

// TestCasePaths returns a list of all test case file paths.
func TestCasePaths() (paths []string, _ error) {
	return paths, fs.WalkDir(casesFS, "cases", func(path string, d fs.DirEntry, err error) error {
		if filepath.Ext(path) == ".yaml" {
			paths = append(paths, path)
		}
		return err
	})
}

// LoadTestCase loads and parses a test case file.
func LoadTestCase(path string) (*TestCase, error) {
	data, err := fs.ReadFile(casesFS, path)
	if err != nil {
		return nil, err
	}
	var testCase TestCase
	if err := yaml.Unmarshal(data, &testCase); err != nil {
		return nil, err
	}
	return &testCase, nil
}

// TupleValue converts a yaml tuple literal into a contract value. Strings
// become principals, integers and booleans map to their variants, and
// nested mappings become nested tuples.
func TupleValue(fields map[string]any) (types.Tuple, error) {
	tuple := make(types.Tuple, len(fields))
	for name, field := range fields {
		value, err := convertValue(field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		tuple[name] = value
	}
	return tuple, nil
}

func convertValue(field any) (types.Value, error) {
	switch t := field.(type) {
	case string:
		return types.Principal(t), nil
	case bool:
		return types.Bool(t), nil
	case int:
		return types.Int(t), nil
	case int64:
		return types.Int(t), nil
	case map[string]any:
		return TupleValue(t)
	default:
		return nil, fmt.Errorf("no value conversion for %T", field)
	}
}
