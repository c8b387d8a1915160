package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FallyxInc/carehome-ingest/internal/common"
	"github.com/FallyxInc/carehome-ingest/internal/llm"
)

func completionResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestSuggestMapping(t *testing.T) {
	ctx := context.Background()
	req := llm.AnalyzeRequest{
		Headers: []string{"Date", "Resident", "Behaviour"},
		Rows:    [][]string{{"01-02-2026", "J. Doe", "wandering"}},
	}

	t.Run("missing api key is not configured", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		c := NewClient(Config{}, nil)
		_, _, err := c.SuggestMapping(ctx, req)
		if !errors.Is(err, common.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("valid model output round trips", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			if r.URL.Path != "/chat/completions" {
				t.Errorf("path: got %s", r.URL.Path)
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if body["model"] != "gpt-4o-mini" {
				t.Errorf("model: got %v", body["model"])
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionResponse(`{
				"fieldMappings": {"incidentDate": ["Date"], "residentName": ["Resident"]},
				"incidentColumns": ["Behaviour"]
			}`)))
		}))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
		out, raw, err := c.SuggestMapping(ctx, req)
		if err != nil {
			t.Fatalf("suggest: %v", err)
		}
		if gotAuth != "Bearer test-key" {
			t.Errorf("authorization header: got %q", gotAuth)
		}
		if out.FieldMappings["incidentDate"][0] != "Date" || len(out.IncidentColumns) != 1 {
			t.Errorf("suggestion: %+v", out)
		}
		if len(raw) == 0 {
			t.Error("raw content must be returned for auditing")
		}
	})

	t.Run("schema violating output is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(completionResponse(`{"fieldMappings": {"favouriteColour": ["Colour"]}}`)))
		}))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
		_, _, err := c.SuggestMapping(ctx, req)
		if err == nil || !strings.Contains(err.Error(), "schema validation failed") {
			t.Fatalf("expected schema validation failure, got %v", err)
		}
	})

	t.Run("upstream error status surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
		_, _, err := c.SuggestMapping(ctx, req)
		if err == nil || !strings.Contains(err.Error(), "429") {
			t.Fatalf("expected status error, got %v", err)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
		_, _, err := c.SuggestMapping(ctx, req)
		if err == nil || !strings.Contains(err.Error(), "no choices") {
			t.Fatalf("expected no-choices error, got %v", err)
		}
	})
}
