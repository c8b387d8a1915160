package llm

import (
	"context"
	"encoding/json"
)

// ColumnMappingSuggestion is the normalized shape we want from the model:
// which spreadsheet columns carry which logical fields. It is best-effort
// output: it may be incomplete or name headers that do not exist in the
// sheet, and the projection step downstream must tolerate both.
type ColumnMappingSuggestion struct {
	// FieldMappings maps a logical field name (incidentDate, residentName,
	// incidentType, injuryFlag, notes) to one or more source column headers.
	FieldMappings map[string][]string `json:"fieldMappings"`
	// IncidentColumns are headers whose cells indicate behaviour incidents.
	IncidentColumns []string `json:"incidentColumns,omitempty"`
	// InjuryColumns are headers whose cells flag injuries.
	InjuryColumns []string `json:"injuryColumns,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// AnalyzeRequest carries the sheet sample handed to the model.
type AnalyzeRequest struct {
	Headers []string
	// Rows is a sample of data rows; callers cap it (50) before inference.
	Rows [][]string
	// Preview is optional free text describing the sheet.
	Preview string
	// CurrentConfig, when present, is the chain's existing extraction
	// config so the model refines rather than starts over.
	CurrentConfig json.RawMessage
}

// MappingSuggester is the interface the onboarding pipeline depends on.
// The inference provider is a non-deterministic best-effort oracle; all
// deterministic projection and validation happens downstream of it.
type MappingSuggester interface {
	SuggestMapping(ctx context.Context, req AnalyzeRequest) (ColumnMappingSuggestion, []byte /*rawJSON*/, error)
}
