package onboarding

import (
	"fmt"

	"github.com/FallyxInc/carehome-ingest/constants"
	"github.com/FallyxInc/carehome-ingest/internal/common"
)

// ConvertAIOutputToOnboardingConfig projects the external AI-output
// document into the internal onboarding schema. It is pure and does no
// I/O: identity fields pass through unmodified (the caller validates
// them), missing collections default to empty, and when the output lists
// several headers for one field the first one wins.
func ConvertAIOutputToOnboardingConfig(ai AIOutput) OnboardingConfig {
	cfg := OnboardingConfig{
		ChainID:   ai.ChainID,
		ChainName: ai.ChainName,
		ExtractionConfig: ExtractionConfig{
			ExcelFieldMappings:   map[string]string{},
			ExcelIncidentColumns: []string{},
			InjuryColumns:        []string{},
		},
	}
	for field, headers := range ai.FieldMappings {
		if len(headers) == 0 {
			continue
		}
		cfg.ExcelFieldMappings[field] = headers[0]
	}
	cfg.ExcelIncidentColumns = append(cfg.ExcelIncidentColumns, ai.IncidentColumns...)
	cfg.InjuryColumns = append(cfg.InjuryColumns, ai.InjuryColumns...)
	return cfg
}

// ValidateOnboardingConfig checks the config's shape and internal
// consistency, returning every violation it finds in one pass. An empty
// list means the config is valid.
func ValidateOnboardingConfig(cfg OnboardingConfig) []common.ValidationError {
	v := common.NewValidator()
	v.Field("chainId", cfg.ChainID, common.Required)
	v.Field("chainName", cfg.ChainName, common.Required)

	for field := range cfg.ExcelFieldMappings {
		if !constants.IsLogicalField(field) {
			v.Add("excelFieldMappings", field, "is not a recognized logical field")
		}
	}

	// A column may carry at most one semantic role.
	roles := map[string]string{}
	claim := func(header, role, field string) {
		key := normalizeHeader(header)
		if key == "" {
			return
		}
		if owner, taken := roles[key]; taken {
			v.Add(field, header, fmt.Sprintf("column already used as %s", owner))
			return
		}
		roles[key] = role
	}
	for field, header := range cfg.ExcelFieldMappings {
		claim(header, "field mapping "+field, "excelFieldMappings")
	}
	for _, header := range cfg.InjuryColumns {
		claim(header, "injury column", "injuryColumns")
	}
	for _, header := range cfg.ExcelIncidentColumns {
		claim(header, "incident column", "excelIncidentColumns")
	}

	if len(cfg.ExcelIncidentColumns) == 0 && cfg.ExcelFieldMappings[string(constants.FieldIncidentType)] == "" {
		v.Add("excelIncidentColumns", nil, "at least one incident-indicating column is required")
	}

	return v.Errors()
}

// ConvertOnboardingConfigToChainConfig strips onboarding-only metadata;
// the rest is an identity projection.
func ConvertOnboardingConfigToChainConfig(cfg OnboardingConfig) ChainConfig {
	return ChainConfig{
		ChainID:          cfg.ChainID,
		ChainName:        cfg.ChainName,
		ExtractionConfig: cfg.ExtractionConfig,
	}
}
