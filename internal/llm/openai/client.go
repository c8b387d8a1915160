package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/internal/common"
	"github.com/FallyxInc/carehome-ingest/internal/llm"
)

// SuggestMapping implements llm.MappingSuggester using text-only
// chat/completions with a JSON-schema-constrained response.
func (c *Client) SuggestMapping(ctx context.Context, req llm.AnalyzeRequest) (llm.ColumnMappingSuggestion, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	if strings.TrimSpace(c.cfg.APIKey) == "" {
		c.log.Warn("llm.analyze.not_configured", zap.String("req_id", rid))
		return llm.ColumnMappingSuggestion{}, nil, common.ErrNotConfigured
	}

	c.log.Info("llm.analyze.start",
		zap.String("req_id", rid),
		zap.String("model", c.cfg.Model),
		zap.Int("headers", len(req.Headers)),
		zap.Int("sample_rows", len(req.Rows)),
		zap.Bool("has_current_config", len(req.CurrentConfig) > 0),
	)

	schema := llm.BuildMappingJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt()},
			{"role": "user", "content": buildUserPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.log.Error("llm.analyze.http_error",
			zap.String("req_id", rid),
			zap.Error(httpErr),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return llm.ColumnMappingSuggestion{}, nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.analyze.decode_error",
			zap.String("req_id", rid), zap.Error(err), zap.Int("raw_bytes", len(raw)),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return llm.ColumnMappingSuggestion{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.analyze.no_choices",
			zap.String("req_id", rid),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return llm.ColumnMappingSuggestion{}, raw, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := llm.ValidateMappingJSON(content); err != nil {
		c.log.Error("llm.analyze.schema_validation_failed",
			zap.String("req_id", rid), zap.Error(err), zap.ByteString("content", content),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return llm.ColumnMappingSuggestion{}, content, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.ColumnMappingSuggestion
	if err := json.Unmarshal(content, &out); err != nil {
		c.log.Error("llm.analyze.unmarshal_failed",
			zap.String("req_id", rid), zap.Error(err),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return llm.ColumnMappingSuggestion{}, content, fmt.Errorf("unmarshal suggestion: %w", err)
	}

	c.log.Info("llm.analyze.ok",
		zap.String("req_id", rid),
		zap.Int("mapped_fields", len(out.FieldMappings)),
		zap.Int("incident_columns", len(out.IncidentColumns)),
		zap.Int("injury_columns", len(out.InjuryColumns)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return out, content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("openai response body close error", zap.Error(cerr))
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
