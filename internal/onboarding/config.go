// Package onboarding turns AI-suggested column mappings into validated,
// persisted chain extraction configurations.
package onboarding

// ExtractionConfig is the validated shape the ingestion runtime consumes
// when parsing a chain's spreadsheet uploads. Every referenced column
// header is expected to exist in the chain's sheets.
type ExtractionConfig struct {
	// ExcelFieldMappings maps a logical field to the column header that
	// carries it.
	ExcelFieldMappings map[string]string `json:"excelFieldMappings"`
	// ExcelIncidentColumns are headers whose cells indicate behaviour
	// incidents.
	ExcelIncidentColumns []string `json:"excelIncidentColumns"`
	// InjuryColumns are headers whose cells flag injuries.
	InjuryColumns []string `json:"injuryColumns"`
}

// OnboardingConfig is the persisted source of truth for a chain's
// extraction setup. ChainID is the stable identity; updates are keyed by
// it and preserve the original CreatedAt.
type OnboardingConfig struct {
	ChainID   string `json:"chainId"`
	ChainName string `json:"chainName"`
	ExtractionConfig
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Source    string `json:"source,omitempty"`
}

// ChainConfig is the runtime-facing projection of OnboardingConfig with
// onboarding metadata stripped. It is derived on demand and never
// independently persisted.
type ChainConfig struct {
	ChainID   string `json:"chainId"`
	ChainName string `json:"chainName"`
	ExtractionConfig
}

// AIOutput is the external mapping document produced by the AI-assisted
// onboarding flow. Its shape is not trusted: conversion applies defaults
// and validation reports every violation before anything is persisted.
type AIOutput struct {
	ChainID         string              `json:"chainId"`
	ChainName       string              `json:"chainName"`
	FieldMappings   map[string][]string `json:"fieldMappings"`
	IncidentColumns []string            `json:"incidentColumns"`
	InjuryColumns   []string            `json:"injuryColumns"`
	Notes           string              `json:"notes,omitempty"`
}
