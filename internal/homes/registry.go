// Package homes exposes the registry mapping home keys to care facilities.
package homes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FallyxInc/carehome-ingest/constants"
	"github.com/FallyxInc/carehome-ingest/internal/store"
)

// Home describes a single care facility.
type Home struct {
	CanonicalID string `json:"canonicalId"`
	DisplayName string `json:"displayName"`
	ChainID     string `json:"chainId,omitempty"`
}

// Registry resolves home keys to facilities. Injected wherever display
// names are compared so tests can substitute a small fixture instead of
// the production home list.
type Registry interface {
	// Lookup resolves a home key. Returns store.ErrNotFound for unknown keys.
	Lookup(ctx context.Context, homeKey string) (Home, error)
	// All returns every registered home keyed by home key.
	All(ctx context.Context) (map[string]Home, error)
}

// StoreRegistry reads homes from the durable store under /homes/{homeKey}.
type StoreRegistry struct {
	store store.Store
}

// NewStoreRegistry creates a registry backed by the durable store.
func NewStoreRegistry(s store.Store) *StoreRegistry {
	return &StoreRegistry{store: s}
}

func (r *StoreRegistry) Lookup(ctx context.Context, homeKey string) (Home, error) {
	raw, err := r.store.Get(ctx, constants.HomesPath+"/"+homeKey)
	if err != nil {
		return Home{}, err
	}
	var h Home
	if err := json.Unmarshal(raw, &h); err != nil {
		return Home{}, fmt.Errorf("decode home %q: %w", homeKey, err)
	}
	return h, nil
}

func (r *StoreRegistry) All(ctx context.Context) (map[string]Home, error) {
	raws, err := r.store.List(ctx, constants.HomesPath)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Home, len(raws))
	for key, raw := range raws {
		var h Home
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("decode home %q: %w", key, err)
		}
		out[key] = h
	}
	return out, nil
}

// Static is a fixed in-memory registry, used in tests and seeds.
type Static map[string]Home

func (s Static) Lookup(_ context.Context, homeKey string) (Home, error) {
	h, ok := s[homeKey]
	if !ok {
		return Home{}, store.ErrNotFound
	}
	return h, nil
}

func (s Static) All(_ context.Context) (map[string]Home, error) {
	out := make(map[string]Home, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}
