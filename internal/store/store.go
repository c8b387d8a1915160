// Package store provides path-addressed persistence for JSON documents.
// It exposes the minimal get/set/update/remove surface the onboarding
// pipeline needs; backends are interchangeable.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when no document exists at a path.
var ErrNotFound = errors.New("store: path not found")

// Store is a durable key-value tree addressed by slash-separated paths.
// Set replaces the document at path; Update merges the given fields into
// the existing JSON object (creating it when absent); Remove is a no-op
// for missing paths.
type Store interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Set(ctx context.Context, path string, value any) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Remove(ctx context.Context, path string) error

	// List returns the documents stored directly under prefix, keyed by
	// their final path segment.
	List(ctx context.Context, prefix string) (map[string]json.RawMessage, error)

	Close() error
}

// mergeInto applies fields over the JSON object in raw. A nil or invalid
// raw starts from an empty object.
func mergeInto(raw json.RawMessage, fields map[string]any) ([]byte, error) {
	obj := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &obj); err != nil {
			obj = map[string]any{}
		}
	}
	for k, v := range fields {
		obj[k] = v
	}
	return json.Marshal(obj)
}
