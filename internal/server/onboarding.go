package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/internal/common"
	"github.com/FallyxInc/carehome-ingest/internal/llm"
	"github.com/FallyxInc/carehome-ingest/internal/onboarding"
	"github.com/FallyxInc/carehome-ingest/internal/store"
)

// OnboardingHandler serves schema analysis and config import.
type OnboardingHandler struct {
	log      *zap.Logger
	analyzer *onboarding.Analyzer
	service  *onboarding.Service
}

// NewOnboardingHandler creates an OnboardingHandler.
func NewOnboardingHandler(log *zap.Logger, analyzer *onboarding.Analyzer, service *onboarding.Service) *OnboardingHandler {
	return &OnboardingHandler{log: log, analyzer: analyzer, service: service}
}

type analyzeRequest struct {
	Headers       []string        `json:"headers"`
	Rows          [][]string      `json:"rows"`
	Preview       string          `json:"preview,omitempty"`
	CurrentConfig json.RawMessage `json:"currentConfig,omitempty"`
}

type analyzeResponse struct {
	Suggestion       llm.ColumnMappingSuggestion `json:"suggestion"`
	ExtractionConfig onboarding.ExtractionConfig `json:"extractionConfig"`
	Notes            []string                    `json:"notes,omitempty"`
}

// AnalyzeExcel handles POST /api/onboarding/analyze. A missing inference
// credential is surfaced with a distinguished code so the UI can prompt
// for manual mapping instead of retrying.
func (h *OnboardingHandler) AnalyzeExcel(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request",
			fmt.Errorf("headers and rows must be arrays: %w", err))
		return
	}
	if len(req.Headers) == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_request",
			fmt.Errorf("headers must not be empty"))
		return
	}

	suggestion, cfg, notes, err := h.analyzer.AnalyzeExcelData(c.Request.Context(), llm.AnalyzeRequest{
		Headers:       req.Headers,
		Rows:          req.Rows,
		Preview:       req.Preview,
		CurrentConfig: req.CurrentConfig,
	})
	if err != nil {
		if errors.Is(err, common.ErrNotConfigured) {
			RespondError(c, http.StatusInternalServerError, "llm_not_configured",
				fmt.Errorf("column-mapping inference is not configured; map columns manually"))
			return
		}
		h.log.Error("onboarding.analyze.failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "analyze_failed", err)
		return
	}
	RespondOK(c, analyzeResponse{Suggestion: suggestion, ExtractionConfig: cfg, Notes: notes})
}

type importResponse struct {
	OnboardingConfig onboarding.OnboardingConfig `json:"onboardingConfig"`
	ChainConfig      onboarding.ChainConfig      `json:"chainConfig"`
}

// ImportConfig handles POST /api/onboarding/import. Repeat imports for the
// same chain update in place, preserving the original creation timestamp.
func (h *OnboardingHandler) ImportConfig(c *gin.Context) {
	var ai onboarding.AIOutput
	if err := c.ShouldBindJSON(&ai); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request",
			fmt.Errorf("decode ai output: %w", err))
		return
	}

	cfg, chainCfg, validationErrs, err := h.service.ImportAIOutput(c.Request.Context(), ai)
	if err != nil {
		h.log.Error("onboarding.import.failed", zap.String("chain_id", ai.ChainID), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "import_failed", err)
		return
	}
	if len(validationErrs) > 0 {
		messages := make([]string, 0, len(validationErrs))
		for _, ve := range validationErrs {
			messages = append(messages, ve.Error())
		}
		RespondValidationErrors(c, messages)
		return
	}
	RespondOK(c, importResponse{OnboardingConfig: cfg, ChainConfig: chainCfg})
}

// GetOnboardingConfig handles GET /api/onboarding/:chainId.
func (h *OnboardingHandler) GetOnboardingConfig(c *gin.Context) {
	chainID := strings.TrimSpace(c.Param("chainId"))
	cfg, err := h.service.Get(c.Request.Context(), chainID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "config_not_found",
				fmt.Errorf("no onboarding config for chain %q", chainID))
			return
		}
		h.log.Error("onboarding.get.failed", zap.String("chain_id", chainID), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, cfg)
}

// GetChainConfig handles GET /api/chains/:chainId/config. The chain config
// is derived from the persisted onboarding config on every request.
func (h *OnboardingHandler) GetChainConfig(c *gin.Context) {
	chainID := strings.TrimSpace(c.Param("chainId"))
	cfg, err := h.service.ChainConfig(c.Request.Context(), chainID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "config_not_found",
				fmt.Errorf("no onboarding config for chain %q", chainID))
			return
		}
		h.log.Error("onboarding.chainconfig.failed", zap.String("chain_id", chainID), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, cfg)
}

// DeleteOnboardingConfig handles DELETE /api/onboarding/:chainId.
func (h *OnboardingHandler) DeleteOnboardingConfig(c *gin.Context) {
	chainID := strings.TrimSpace(c.Param("chainId"))
	if err := h.service.Remove(c.Request.Context(), chainID); err != nil {
		h.log.Error("onboarding.delete.failed", zap.String("chain_id", chainID), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"removed": chainID})
}
