package onboarding

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/constants"
	"github.com/FallyxInc/carehome-ingest/internal/llm"
)

// maxSampleRows caps the data sample forwarded to the model.
const maxSampleRows = 50

// fieldPriority orders logical fields from most to least specific. When a
// suggestion maps two fields to the same header, the more specific one
// keeps it.
var fieldPriority = []constants.LogicalField{
	constants.FieldIncidentDate,
	constants.FieldInjuryFlag,
	constants.FieldResidentName,
	constants.FieldIncidentType,
	constants.FieldNotes,
}

// Analyzer produces extraction-config suggestions for a sheet sample. The
// semantic inference is delegated to the injected suggester; everything
// deterministic lives in ToExcelExtractionConfig.
type Analyzer struct {
	suggester llm.MappingSuggester
	logger    *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(suggester llm.MappingSuggester, logger *zap.Logger) *Analyzer {
	return &Analyzer{suggester: suggester, logger: logger}
}

// AnalyzeExcelData asks the model for a column mapping over the sampled
// sheet data and projects the raw suggestion into a canonical extraction
// config. The suggestion is returned alongside the config so the operator
// can inspect what the model saw.
func (a *Analyzer) AnalyzeExcelData(ctx context.Context, req llm.AnalyzeRequest) (llm.ColumnMappingSuggestion, ExtractionConfig, []string, error) {
	if len(req.Rows) > maxSampleRows {
		req.Rows = req.Rows[:maxSampleRows]
	}

	suggestion, _, err := a.suggester.SuggestMapping(ctx, req)
	if err != nil {
		return llm.ColumnMappingSuggestion{}, ExtractionConfig{}, nil, fmt.Errorf("suggest mapping: %w", err)
	}

	cfg, notes := ToExcelExtractionConfig(suggestion, req.Headers)
	a.logger.Info("onboarding.analyze.projected",
		zap.Int("mapped_fields", len(cfg.ExcelFieldMappings)),
		zap.Int("incident_columns", len(cfg.ExcelIncidentColumns)),
		zap.Int("injury_columns", len(cfg.InjuryColumns)),
		zap.Strings("notes", notes),
	)
	return suggestion, cfg, notes, nil
}

// ToExcelExtractionConfig projects a raw suggestion onto the actual header
// set. Suggested headers absent from the sheet are dropped, each drop
// reported in the returned notes. When two roles claim the same header the
// more specific one wins: field mappings and injury flags take precedence
// over generic incident columns, and field mappings follow fieldPriority
// among themselves. Nothing ambiguous is silently kept.
func ToExcelExtractionConfig(s llm.ColumnMappingSuggestion, headers []string) (ExtractionConfig, []string) {
	canonical := make(map[string]string, len(headers))
	for _, h := range headers {
		canonical[normalizeHeader(h)] = h
	}

	cfg := ExtractionConfig{
		ExcelFieldMappings:   map[string]string{},
		ExcelIncidentColumns: []string{},
		InjuryColumns:        []string{},
	}
	var notes []string
	claimed := map[string]string{} // normalized header -> role that owns it

	// Field mappings, most specific role first.
	for _, field := range fieldPriority {
		suggested, ok := s.FieldMappings[string(field)]
		if !ok {
			continue
		}
		for _, h := range suggested {
			key := normalizeHeader(h)
			header, present := canonical[key]
			if !present {
				notes = append(notes, fmt.Sprintf("dropped %q for field %q: header not in sheet", h, field))
				continue
			}
			if owner, taken := claimed[key]; taken {
				notes = append(notes, fmt.Sprintf("dropped %q for field %q: already mapped to %s", header, field, owner))
				continue
			}
			cfg.ExcelFieldMappings[string(field)] = header
			claimed[key] = "field " + string(field)
			break
		}
	}
	for field := range s.FieldMappings {
		if !constants.IsLogicalField(field) {
			notes = append(notes, fmt.Sprintf("dropped unrecognized field %q", field))
		}
	}

	// Injury flags beat generic incident columns.
	for _, h := range s.InjuryColumns {
		key := normalizeHeader(h)
		header, present := canonical[key]
		if !present {
			notes = append(notes, fmt.Sprintf("dropped injury column %q: header not in sheet", h))
			continue
		}
		if owner, taken := claimed[key]; taken {
			notes = append(notes, fmt.Sprintf("dropped injury column %q: already mapped to %s", header, owner))
			continue
		}
		cfg.InjuryColumns = append(cfg.InjuryColumns, header)
		claimed[key] = "injury column"
	}

	for _, h := range s.IncidentColumns {
		key := normalizeHeader(h)
		header, present := canonical[key]
		if !present {
			notes = append(notes, fmt.Sprintf("dropped incident column %q: header not in sheet", h))
			continue
		}
		if owner, taken := claimed[key]; taken {
			notes = append(notes, fmt.Sprintf("dropped incident column %q: already mapped to %s", header, owner))
			continue
		}
		cfg.ExcelIncidentColumns = append(cfg.ExcelIncidentColumns, header)
		claimed[key] = "incident column"
	}

	return cfg, notes
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
