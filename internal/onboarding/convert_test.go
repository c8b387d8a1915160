package onboarding

import (
	"testing"
)

func TestConvertAIOutputToOnboardingConfig(t *testing.T) {
	t.Run("missing collections default to empty", func(t *testing.T) {
		cfg := ConvertAIOutputToOnboardingConfig(AIOutput{ChainID: "cenark", ChainName: "Cenark"})
		if cfg.ExcelFieldMappings == nil || cfg.ExcelIncidentColumns == nil || cfg.InjuryColumns == nil {
			t.Fatalf("collections must be non-nil: %+v", cfg)
		}
		if len(cfg.ExcelFieldMappings) != 0 || len(cfg.ExcelIncidentColumns) != 0 || len(cfg.InjuryColumns) != 0 {
			t.Fatalf("collections must be empty: %+v", cfg)
		}
	})

	t.Run("first header wins when several are listed", func(t *testing.T) {
		cfg := ConvertAIOutputToOnboardingConfig(AIOutput{
			ChainID:   "cenark",
			ChainName: "Cenark",
			FieldMappings: map[string][]string{
				"incidentDate": {"Date of Incident", "Date"},
				"notes":        {},
			},
			IncidentColumns: []string{"Behaviour"},
			InjuryColumns:   []string{"Injury"},
		})
		if cfg.ExcelFieldMappings["incidentDate"] != "Date of Incident" {
			t.Errorf("incidentDate: got %q", cfg.ExcelFieldMappings["incidentDate"])
		}
		if _, ok := cfg.ExcelFieldMappings["notes"]; ok {
			t.Error("a field with no headers must not be mapped")
		}
		if len(cfg.ExcelIncidentColumns) != 1 || len(cfg.InjuryColumns) != 1 {
			t.Errorf("columns: %+v", cfg.ExtractionConfig)
		}
	})
}

func TestValidateOnboardingConfig(t *testing.T) {
	valid := OnboardingConfig{
		ChainID:   "cenark",
		ChainName: "Cenark Care Group",
		ExtractionConfig: ExtractionConfig{
			ExcelFieldMappings:   map[string]string{"incidentDate": "Date", "residentName": "Resident"},
			ExcelIncidentColumns: []string{"Behaviour"},
			InjuryColumns:        []string{"Injury"},
		},
	}

	t.Run("valid config has no violations", func(t *testing.T) {
		if errs := ValidateOnboardingConfig(valid); len(errs) != 0 {
			t.Fatalf("unexpected violations: %v", errs)
		}
	})

	t.Run("all violations reported in one pass", func(t *testing.T) {
		cfg := OnboardingConfig{
			ChainID: "cenark",
			ExtractionConfig: ExtractionConfig{
				ExcelFieldMappings:   map[string]string{"residentName": "Resident"},
				ExcelIncidentColumns: []string{},
				InjuryColumns:        []string{},
			},
		}
		errs := ValidateOnboardingConfig(cfg)
		if len(errs) != 2 {
			t.Fatalf("expected 2 violations, got %d: %v", len(errs), errs)
		}
		fields := map[string]bool{}
		for _, e := range errs {
			fields[e.Field] = true
		}
		if !fields["chainName"] || !fields["excelIncidentColumns"] {
			t.Errorf("expected chainName and excelIncidentColumns violations, got %v", errs)
		}
	})

	t.Run("unrecognized logical field", func(t *testing.T) {
		cfg := valid
		cfg.ExcelFieldMappings = map[string]string{"incidentDate": "Date", "favouriteColour": "Colour"}
		errs := ValidateOnboardingConfig(cfg)
		if len(errs) != 1 || errs[0].Field != "excelFieldMappings" {
			t.Fatalf("expected one excelFieldMappings violation, got %v", errs)
		}
	})

	t.Run("a column may carry one role only", func(t *testing.T) {
		cfg := valid
		cfg.ExcelFieldMappings = map[string]string{"incidentDate": "Date"}
		cfg.InjuryColumns = []string{"Date"}
		errs := ValidateOnboardingConfig(cfg)
		if len(errs) != 1 || errs[0].Field != "injuryColumns" {
			t.Fatalf("expected one injuryColumns violation, got %v", errs)
		}
	})

	t.Run("incidentType mapping satisfies the incident requirement", func(t *testing.T) {
		cfg := OnboardingConfig{
			ChainID:   "cenark",
			ChainName: "Cenark Care Group",
			ExtractionConfig: ExtractionConfig{
				ExcelFieldMappings:   map[string]string{"incidentType": "Behaviour Type"},
				ExcelIncidentColumns: []string{},
				InjuryColumns:        []string{},
			},
		}
		if errs := ValidateOnboardingConfig(cfg); len(errs) != 0 {
			t.Fatalf("unexpected violations: %v", errs)
		}
	})
}

func TestConvertOnboardingConfigToChainConfig(t *testing.T) {
	cfg := OnboardingConfig{
		ChainID:   "cenark",
		ChainName: "Cenark Care Group",
		ExtractionConfig: ExtractionConfig{
			ExcelFieldMappings:   map[string]string{"incidentDate": "Date"},
			ExcelIncidentColumns: []string{"Behaviour"},
			InjuryColumns:        []string{"Injury"},
		},
		CreatedAt: "2025-01-01T00:00:00Z",
		UpdatedAt: "2025-02-01T00:00:00Z",
		Source:    "ai-import",
	}
	chain := ConvertOnboardingConfigToChainConfig(cfg)
	if chain.ChainID != cfg.ChainID || chain.ChainName != cfg.ChainName {
		t.Errorf("identity fields must pass through: %+v", chain)
	}
	if chain.ExcelFieldMappings["incidentDate"] != "Date" {
		t.Errorf("extraction config must pass through: %+v", chain)
	}
}
