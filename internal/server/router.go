package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig wires handlers into the HTTP router.
type RouterConfig struct {
	Logger            *zap.Logger
	CORSOrigins       []string
	VerifyHandler     *VerifyHandler
	OnboardingHandler *OnboardingHandler
	HomesHandler      *HomesHandler
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(AttachRequestID())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/healthcheck", HealthCheck)

	api := r.Group("/api")
	{
		if cfg.VerifyHandler != nil {
			api.POST("/verify/documents", cfg.VerifyHandler.VerifyDocuments)
		}
		if cfg.OnboardingHandler != nil {
			api.POST("/onboarding/analyze", cfg.OnboardingHandler.AnalyzeExcel)
			api.POST("/onboarding/import", cfg.OnboardingHandler.ImportConfig)
			api.GET("/onboarding/:chainId", cfg.OnboardingHandler.GetOnboardingConfig)
			api.DELETE("/onboarding/:chainId", cfg.OnboardingHandler.DeleteOnboardingConfig)
			api.GET("/chains/:chainId/config", cfg.OnboardingHandler.GetChainConfig)
		}
		if cfg.HomesHandler != nil {
			api.GET("/homes", cfg.HomesHandler.ListHomes)
		}
	}

	return r
}
