package llm

import "github.com/FallyxInc/carehome-ingest/constants"

// BuildMappingJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass it to the model as a structured output constraint
// and also use it locally to validate whatever comes back.
func BuildMappingJSONSchema() map[string]any {
	headerList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "minLength": 1},
	}

	fieldProps := map[string]any{}
	for _, f := range constants.LogicalFields() {
		fieldProps[f] = headerList
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"fieldMappings": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           fieldProps,
			},
			"incidentColumns": headerList,
			"injuryColumns":   headerList,
			"notes":           map[string]any{"type": "string"},
		},
		"required": []string{"fieldMappings"},
	}
}
