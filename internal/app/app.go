package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mepscan/internal/config"
	"mepscan/internal/infrastructure"
	customMiddleware "mepscan/internal/middleware"
	"mepscan/internal/services"
	handlers "mepscan/internal/transport/http"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

// Application is the composition root for the HTTP server.
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
	OTelProviders   *infrastructure.OTelProviders
	Logger          *slog.Logger
}

// New builds the application from the configuration at configPath.
// An empty path loads the built-in defaults plus environment overrides.
func New(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := infrastructure.NewLogger(cfg.Logging)
	logger.Info("application starting",
		slog.String("version", Version),
		slog.String("pricing_mode", cfg.Analysis.PricingMode))

	otelProviders, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewAnalysisMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis metrics: %w", err)
	}

	analysisService, err := services.NewAnalysisService(cfg.Analysis, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analysis service: %w", err)
	}

	app := &Application{
		Config:          cfg,
		AnalysisService: analysisService,
		HealthService:   services.NewHealthService(Version),
		OTelProviders:   otelProviders,
		Logger:          logger,
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the chi router and the middleware chain.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		analysisHandler := handlers.NewAnalysisHandler(a.AnalysisService, a.Logger)
		analysisHandler.RegisterRoutes(r)
	})

	// Outside the middleware chain so scrapes are never rate limited.
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the HTTP listener. cancel is invoked if the listener
// fails so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully shuts down the server and the telemetry providers.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry",
				slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
