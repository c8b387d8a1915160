package constants

// LogicalField names a semantic role a spreadsheet column can carry in a
// chain's extraction configuration.
type LogicalField string

// Stable values (stored verbatim in persisted configs).
const (
	FieldIncidentDate LogicalField = "incidentDate"
	FieldResidentName LogicalField = "residentName"
	FieldIncidentType LogicalField = "incidentType"
	FieldInjuryFlag   LogicalField = "injuryFlag"
	FieldNotes        LogicalField = "notes"
)

var allLogicalFields = []LogicalField{
	FieldIncidentDate,
	FieldResidentName,
	FieldIncidentType,
	FieldInjuryFlag,
	FieldNotes,
}

// LogicalFields returns the recognized logical field names as strings.
func LogicalFields() []string {
	out := make([]string, len(allLogicalFields))
	for i, f := range allLogicalFields {
		out[i] = string(f)
	}
	return out
}

// IsLogicalField reports whether name is a recognized logical field.
func IsLogicalField(name string) bool {
	for _, f := range allLogicalFields {
		if string(f) == name {
			return true
		}
	}
	return false
}
