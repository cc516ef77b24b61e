package config

import (
	"embed"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/config.v1.schema.json
var schemaFS embed.FS

const schemaFile = "schemas/config.v1.schema.json"

// SchemaError is one schema violation.
type SchemaError struct {
	Field       string
	Description string
}

func (e SchemaError) String() string {
	return e.Field + ": " + e.Description
}

// ValidateFile checks a YAML config file against the embedded JSON schema.
// A file that parses but violates the schema returns the violations and an
// error wrapping ErrInvalidConfig.
func ValidateFile(path string) ([]SchemaError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %w", path, ErrInvalidConfig, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	schemaBytes, err := schemaFS.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load JSON schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]SchemaError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, SchemaError{Field: desc.Field(), Description: desc.Description()})
	}
	return violations, fmt.Errorf("%s: %w: %d schema violations", path, ErrInvalidConfig, len(violations))
}
