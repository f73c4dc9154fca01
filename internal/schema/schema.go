// Package schema loads the caller-supplied JSON Schema that describes the
// desired extraction output shape.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrNotFound is returned when the schema file does not exist.
	ErrNotFound = errors.New("schema file not found")

	// ErrInvalid is returned when the schema file is not valid JSON or does
	// not compile as a JSON Schema.
	ErrInvalid = errors.New("invalid schema")
)

// Schema is a caller-supplied JSON Schema, read once per run and immutable
// afterwards.
type Schema struct {
	// Path is the file the schema was loaded from.
	Path string

	// Name identifies the schema in API requests, derived from the filename.
	Name string

	// Raw is the schema document exactly as read from disk.
	Raw json.RawMessage

	// Compiled is the parsed schema. Compiling is a sanity check that runs
	// before any network work; model responses are passed through without
	// validation.
	Compiled *jsonschema.Schema
}

// Load reads and compiles the schema at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalid, path)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}

	return &Schema{
		Path:     path,
		Name:     nameFromPath(path),
		Raw:      json.RawMessage(data),
		Compiled: compiled,
	}, nil
}

// nameFromPath derives a request-safe identifier from the schema filename.
// "invoice fields.json" -> "invoice_fields".
func nameFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "extraction"
	}
	return b.String()
}
