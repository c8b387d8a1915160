package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/internal/common"
	"github.com/FallyxInc/carehome-ingest/internal/extract"
	"github.com/FallyxInc/carehome-ingest/internal/homes"
	"github.com/FallyxInc/carehome-ingest/internal/llm/openai"
	"github.com/FallyxInc/carehome-ingest/internal/onboarding"
	"github.com/FallyxInc/carehome-ingest/internal/server"
	"github.com/FallyxInc/carehome-ingest/internal/store"
	"github.com/FallyxInc/carehome-ingest/internal/verify"
)

func main() {
	cfg := common.LoadConfig()

	var logger *zap.Logger
	var err error
	if cfg.Server.Mode == "prod" {
		logger, err = zap.NewProduction()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer func() { _ = st.Close() }()

	registry := homes.NewStoreRegistry(st)
	extractor := extract.NewExtractor(logger)
	verifier := verify.NewVerifier(registry, extractor, logger)

	suggester := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	analyzer := onboarding.NewAnalyzer(suggester, logger)
	onboardingSvc := onboarding.NewService(st, logger)

	router := server.NewRouter(server.RouterConfig{
		Logger:            logger,
		CORSOrigins:       cfg.Server.CORSOrigins,
		VerifyHandler:     server.NewVerifyHandler(logger, verifier),
		OnboardingHandler: server.NewOnboardingHandler(logger, analyzer, onboardingSvc),
		HomesHandler:      server.NewHomesHandler(logger, registry),
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
	log.Info("stopped.")
}

// openStore picks the backend from configuration: Postgres when DB_URL is
// set, SQLite otherwise.
func openStore(ctx context.Context, cfg *common.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.Store.DSN != "" {
		pg, err := store.OpenPostgres(ctx, store.PostgresConfig{
			DSN:             cfg.Store.DSN,
			MaxConns:        cfg.Store.MaxConns,
			MinConns:        cfg.Store.MinConns,
			MaxConnLifetime: cfg.Store.MaxConnLifetime,
			MaxConnIdleTime: cfg.Store.MaxConnIdleTime,
			DialTimeout:     cfg.Store.DialTimeout,
		}, logger)
		if err != nil {
			return nil, common.WrapError(err, "open postgres")
		}
		if err := pg.Ping(ctx, cfg.Store.HealthTimeout); err != nil {
			_ = pg.Close()
			return nil, common.WrapError(err, "postgres health check")
		}
		return pg, nil
	}
	return store.OpenSQLite(cfg.Store.SQLitePath, logger)
}
