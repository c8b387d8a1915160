package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and local tooling.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]json.RawMessage)}
}

func (m *Memory) Get(_ context.Context, path string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.docs[normalizePath(path)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, nil
}

func (m *Memory) Set(_ context.Context, path string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[normalizePath(path)] = b
	return nil
}

func (m *Memory) Update(_ context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := normalizePath(path)
	merged, err := mergeInto(m.docs[key], fields)
	if err != nil {
		return err
	}
	m.docs[key] = merged
	return nil
}

func (m *Memory) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, normalizePath(path))
	return nil
}

func (m *Memory) List(_ context.Context, prefix string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := normalizePath(prefix) + "/"
	out := make(map[string]json.RawMessage)
	for key, raw := range m.docs {
		if !strings.HasPrefix(key, p) {
			continue
		}
		rest := strings.TrimPrefix(key, p)
		if strings.Contains(rest, "/") {
			continue
		}
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		out[rest] = cp
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

// normalizePath strips trailing slashes and guarantees a single leading one.
func normalizePath(path string) string {
	path = strings.TrimRight(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
