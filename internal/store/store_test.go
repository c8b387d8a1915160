package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// Both backends must behave identically through the Store interface, so
// the same suite runs against each.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestStoreConformance(t *testing.T) {
	ctx := context.Background()

	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("get missing path", func(t *testing.T) {
				if _, err := st.Get(ctx, "/nowhere"); !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			})

			t.Run("set then get round trip", func(t *testing.T) {
				doc := map[string]any{"chainId": "cenark", "chainName": "Cenark"}
				if err := st.Set(ctx, "/onboardingConfigs/cenark", doc); err != nil {
					t.Fatalf("set: %v", err)
				}
				raw, err := st.Get(ctx, "/onboardingConfigs/cenark")
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				var got map[string]any
				if err := json.Unmarshal(raw, &got); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got["chainName"] != "Cenark" {
					t.Errorf("got %v", got)
				}
			})

			t.Run("set replaces the whole document", func(t *testing.T) {
				_ = st.Set(ctx, "/homes/a", map[string]any{"x": 1, "y": 2})
				_ = st.Set(ctx, "/homes/a", map[string]any{"x": 9})
				raw, _ := st.Get(ctx, "/homes/a")
				var got map[string]any
				_ = json.Unmarshal(raw, &got)
				if _, ok := got["y"]; ok {
					t.Errorf("stale field survived replace: %v", got)
				}
			})

			t.Run("update merges fields", func(t *testing.T) {
				_ = st.Set(ctx, "/homes/b", map[string]any{"name": "Riverview", "chainId": "cenark"})
				if err := st.Update(ctx, "/homes/b", map[string]any{"name": "Riverview Lodge"}); err != nil {
					t.Fatalf("update: %v", err)
				}
				raw, _ := st.Get(ctx, "/homes/b")
				var got map[string]any
				_ = json.Unmarshal(raw, &got)
				if got["name"] != "Riverview Lodge" || got["chainId"] != "cenark" {
					t.Errorf("merge lost a field: %v", got)
				}
			})

			t.Run("list returns direct children only", func(t *testing.T) {
				_ = st.Set(ctx, "/reg/one", map[string]any{"n": 1})
				_ = st.Set(ctx, "/reg/two", map[string]any{"n": 2})
				_ = st.Set(ctx, "/reg/two/nested", map[string]any{"n": 3})
				out, err := st.List(ctx, "/reg")
				if err != nil {
					t.Fatalf("list: %v", err)
				}
				if len(out) != 2 {
					t.Fatalf("expected two children, got %v", out)
				}
				if _, ok := out["nested"]; ok {
					t.Error("nested paths must not surface as children")
				}
			})

			t.Run("remove is idempotent", func(t *testing.T) {
				_ = st.Set(ctx, "/gone", map[string]any{"n": 1})
				if err := st.Remove(ctx, "/gone"); err != nil {
					t.Fatalf("remove: %v", err)
				}
				if err := st.Remove(ctx, "/gone"); err != nil {
					t.Fatalf("second remove: %v", err)
				}
				if _, err := st.Get(ctx, "/gone"); !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			})

			t.Run("paths are normalized", func(t *testing.T) {
				_ = st.Set(ctx, "norm/x/", map[string]any{"n": 1})
				if _, err := st.Get(ctx, "/norm/x"); err != nil {
					t.Fatalf("normalized lookup failed: %v", err)
				}
			})
		})
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "/doc", map[string]any{"n": 1})
	raw, _ := m.Get(ctx, "/doc")
	for i := range raw {
		raw[i] = 'x'
	}
	again, _ := m.Get(ctx, "/doc")
	var got map[string]any
	if err := json.Unmarshal(again, &got); err != nil {
		t.Fatalf("caller mutation leaked into the store: %v", err)
	}
}
