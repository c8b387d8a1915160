package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/constants"
	"github.com/FallyxInc/carehome-ingest/internal/common"
	"github.com/FallyxInc/carehome-ingest/internal/store"
)

// Service persists onboarding configs and derives chain configs from them.
type Service struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a Service.
func NewService(s store.Store, logger *zap.Logger) *Service {
	return &Service{store: s, logger: logger, now: time.Now}
}

// ImportAIOutput converts, validates, and persists an AI-output mapping
// document. On validation failure the full error list is returned and
// nothing is written.
func (s *Service) ImportAIOutput(ctx context.Context, ai AIOutput) (OnboardingConfig, ChainConfig, []common.ValidationError, error) {
	cfg := ConvertAIOutputToOnboardingConfig(ai)
	if errs := ValidateOnboardingConfig(cfg); len(errs) > 0 {
		return OnboardingConfig{}, ChainConfig{}, errs, nil
	}
	persisted, err := s.Upsert(ctx, cfg)
	if err != nil {
		return OnboardingConfig{}, ChainConfig{}, nil, err
	}
	return persisted, ConvertOnboardingConfigToChainConfig(persisted), nil, nil
}

// Upsert writes the config keyed by chain id. It reads before writing to
// preserve an existing createdAt and always refreshes updatedAt. There is
// no concurrency token: two simultaneous imports for the same chain race
// and the later write wins. Onboarding is a low-frequency operator action,
// so the non-atomicity is accepted rather than guarded.
func (s *Service) Upsert(ctx context.Context, cfg OnboardingConfig) (OnboardingConfig, error) {
	path := configPath(cfg.ChainID)
	now := s.now().UTC().Format(time.RFC3339)

	cfg.CreatedAt = now
	existing, err := s.getAt(ctx, path)
	switch {
	case err == nil:
		if existing.CreatedAt != "" {
			cfg.CreatedAt = existing.CreatedAt
		}
	case errors.Is(err, store.ErrNotFound):
		// first import for this chain
	default:
		return OnboardingConfig{}, fmt.Errorf("read existing config: %w", err)
	}

	cfg.UpdatedAt = now
	cfg.Source = constants.ConfigSourceAIImport
	if err := s.store.Set(ctx, path, cfg); err != nil {
		return OnboardingConfig{}, fmt.Errorf("persist config: %w", err)
	}
	s.logger.Info("onboarding.config.upserted",
		zap.String("chain_id", cfg.ChainID),
		zap.String("created_at", cfg.CreatedAt),
		zap.String("updated_at", cfg.UpdatedAt),
	)
	return cfg, nil
}

// Get returns the persisted onboarding config for a chain.
func (s *Service) Get(ctx context.Context, chainID string) (OnboardingConfig, error) {
	return s.getAt(ctx, configPath(chainID))
}

// ChainConfig derives the runtime projection for a chain from its
// persisted onboarding config. It is recomputed on every call.
func (s *Service) ChainConfig(ctx context.Context, chainID string) (ChainConfig, error) {
	cfg, err := s.Get(ctx, chainID)
	if err != nil {
		return ChainConfig{}, err
	}
	return ConvertOnboardingConfigToChainConfig(cfg), nil
}

// Remove deletes a chain's onboarding config.
func (s *Service) Remove(ctx context.Context, chainID string) error {
	if err := s.store.Remove(ctx, configPath(chainID)); err != nil {
		return fmt.Errorf("remove config: %w", err)
	}
	s.logger.Info("onboarding.config.removed", zap.String("chain_id", chainID))
	return nil
}

func (s *Service) getAt(ctx context.Context, path string) (OnboardingConfig, error) {
	raw, err := s.store.Get(ctx, path)
	if err != nil {
		return OnboardingConfig{}, err
	}
	var cfg OnboardingConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return OnboardingConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func configPath(chainID string) string {
	return constants.OnboardingConfigsPath + "/" + chainID
}
