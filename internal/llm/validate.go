package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The mapping schema is static for the process lifetime, so it is
// compiled once and shared.
var loadMappingSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(BuildMappingJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal mapping schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("mapping.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add mapping schema: %w", err)
	}
	return compiler.Compile("mapping.json")
})

// ValidateMappingJSON checks raw model output against the column-mapping
// schema before anything downstream unmarshals it.
func ValidateMappingJSON(data []byte) error {
	schema, err := loadMappingSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal mapping output: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("mapping output does not match schema: %w", err)
	}
	return nil
}
