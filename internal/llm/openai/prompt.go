package openai

import (
	"strings"

	"github.com/FallyxInc/carehome-ingest/constants"
	"github.com/FallyxInc/carehome-ingest/internal/llm"
)

func buildSystemPrompt() string {
	parts := []string{
		"You are a spreadsheet schema analyst for care-home behaviour and hydration reports.",
		"Given column headers and sample rows, decide which columns carry which logical fields.",
		"Logical fields: " + strings.Join(constants.LogicalFields(), ", ") + ".",
		"Also list incidentColumns (columns whose cells describe behaviour incidents) and injuryColumns (columns flagging injuries).",
		"Only use headers that appear in the provided header list, verbatim.",
		"If a column's role is unclear, leave it out and explain in 'notes'.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

func buildUserPrompt(req llm.AnalyzeRequest) string {
	var b strings.Builder
	b.WriteString("Headers: " + strings.Join(req.Headers, " | "))
	if len(req.Rows) > 0 {
		b.WriteString("\n\nSample rows:")
		for _, row := range req.Rows {
			b.WriteString("\n" + strings.Join(row, " | "))
		}
	}
	if p := strings.TrimSpace(req.Preview); p != "" {
		b.WriteString("\n\nSheet preview:\n" + p)
	}
	if len(req.CurrentConfig) > 0 {
		b.WriteString("\n\nExisting extraction config (refine, do not discard valid mappings):\n")
		b.Write(req.CurrentConfig)
	}
	return b.String()
}
