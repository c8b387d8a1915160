package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/internal/homes"
)

// HomesHandler exposes the home registry.
type HomesHandler struct {
	log      *zap.Logger
	registry homes.Registry
}

// NewHomesHandler creates a HomesHandler.
func NewHomesHandler(log *zap.Logger, registry homes.Registry) *HomesHandler {
	return &HomesHandler{log: log, registry: registry}
}

// ListHomes handles GET /api/homes.
func (h *HomesHandler) ListHomes(c *gin.Context) {
	all, err := h.registry.All(c.Request.Context())
	if err != nil {
		h.log.Error("homes.list.failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"homes": all})
}

// HealthCheck handles GET /healthcheck.
func HealthCheck(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}
