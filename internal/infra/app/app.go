package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/infra/config"
	"github.com/robertboulos/clearleads/internal/infra/logger"
	"github.com/robertboulos/clearleads/internal/infra/xano"
	"github.com/robertboulos/clearleads/internal/repository/file"
	"github.com/robertboulos/clearleads/internal/transport/http/middleware"
	"github.com/robertboulos/clearleads/internal/transport/http/routes"
	"github.com/robertboulos/clearleads/internal/usecase"
)

// Application wires the gateway together: config, logger, the backend
// client, the in-memory services, and the HTTP engine.
type Application struct {
	cfg     *config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	credits *usecase.CreditsService
}

// New builds an Application from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tokens, err := file.NewTokenStore(cfg.Session.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("init token store: %w", err)
	}

	// The client and the auth service reference each other: the client fires
	// the 401 hook, the service talks to the backend through the client. The
	// hook closure binds the service after construction; no request can reach
	// it before New returns.
	var authService *usecase.AuthService
	client := xano.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, tokens, log,
		xano.WithUnauthorizedHook(func() { authService.HandleUnauthorized() }))
	authService = usecase.NewAuthService(client, tokens, log)

	creditsService := usecase.NewCreditsService(client, log).
		WithGate(authService.IsAuthenticated)
	validationService := usecase.NewValidationService(client, authService, creditsService, log)
	batchService := usecase.NewBatchService(client, authService, log)

	authService.Bootstrap(ctx)
	if authService.IsAuthenticated() {
		if err := creditsService.FetchBalance(ctx); err != nil {
			log.Warn("initial balance fetch failed", zap.Error(err))
		}
	}

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Namespace: cfg.App.Name})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Services: routes.ServiceSet{
			Auth:       authService,
			Validation: validationService,
			Credits:    creditsService,
			Batch:      batchService,
		},
	})

	return &Application{
		cfg:     cfg,
		engine:  engine,
		logger:  log,
		credits: creditsService,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully. The credit reconciliation loop shares the same lifetime.
func (a *Application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.App.Addr(),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go a.credits.Reconcile(ctx, a.cfg.Credits.ReconcileInterval)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.logger.Info("http server stopped")
	return <-errCh
}
