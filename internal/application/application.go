package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bolt-support/insights-service/internal/config"
	"github.com/bolt-support/insights-service/internal/dataset"
	"github.com/bolt-support/insights-service/internal/handler"
	"github.com/bolt-support/insights-service/internal/router"
	"github.com/bolt-support/insights-service/internal/service"
	"github.com/bolt-support/insights-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// API is the dashboard application: one HTTP server over the in-memory
// dataset.
type API struct {
	cfg     *config.Config
	log     zerolog.Logger
	httpSrv *http.Server
	svc     *service.InsightsService
}

// NewAPI wires config, dataset store, service and router. The export is
// loaded lazily on first request, so a missing file surfaces per-request
// rather than preventing startup.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := dataset.NewStore(dataset.NewLoader(cfg.DateLayout))
	svc := service.NewInsightsService(store, cfg.DataFile)
	insights := handler.NewInsightsHandler(svc, cfg.DateLayout)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(insights, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, log: log, httpSrv: httpSrv, svc: svc}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	a.log.Info().Str("addr", a.httpSrv.Addr).Msg("HTTP server listening")
	a.log.Info().Msgf("  Dashboard:     %s/", base)
	a.log.Info().Msgf("  Swagger UI:    %s/swagger", base)
	a.log.Info().Msgf("  Metrics:       %s/metrics", base)
	a.log.Info().Msgf("  API v1:        %s/api/v1/", base)
	a.log.Info().Str("data_file", a.cfg.DataFile).Msg("serving insights")

	if rows, err := a.svc.Reload(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial dataset load failed; will retry on request")
	} else {
		a.log.Info().Int("rows", rows).Msg("dataset loaded")
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
