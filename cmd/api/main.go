package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/atomnext-intake/cmd/mainconfig"
	"github.com/wolfman30/atomnext-intake/internal/api/router"
	"github.com/wolfman30/atomnext-intake/internal/app/bootstrap"
	"github.com/wolfman30/atomnext-intake/internal/archive"
	"github.com/wolfman30/atomnext-intake/internal/catalog"
	"github.com/wolfman30/atomnext-intake/internal/chatbot"
	appconfig "github.com/wolfman30/atomnext-intake/internal/config"
	"github.com/wolfman30/atomnext-intake/internal/forms"
	"github.com/wolfman30/atomnext-intake/internal/intake"
	"github.com/wolfman30/atomnext-intake/internal/leads"
	"github.com/wolfman30/atomnext-intake/internal/notify"
	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/internal/site"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

const (
	chatTranscriptTTL = 7 * 24 * time.Hour
	sitePageCacheSize = 128
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting atomnext intake server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	app, cleanup, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// The chat socket is long-lived, so writes are not time-boxed here.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		cleanup()
		os.Exit(1)
	}
	cleanup()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

type app struct {
	handler  http.Handler
	sessions *intake.Sessions
}

// buildApp wires every component from config. The returned cleanup closes
// sessions and external clients.
func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*app, func(), error) {
	metricsHandler, intakeMetrics, formsMetrics := setupMetrics()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)

	var closers []func()
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	if pool != nil {
		closers = append(closers, pool.Close)
	}

	sessions, err := intake.NewSessions(intake.SessionsConfig{
		KV:          bootstrap.BuildContextKV(redisClient, cfg.IntakeContextTTL, logger),
		Endpoint:    "/intake",
		MaxSessions: cfg.IntakeMaxSessions,
		Delays: intake.Delays{
			Advance:  cfg.IntakeAdvanceDelay,
			Navigate: cfg.IntakeNavigateDelay,
			Focus:    cfg.IntakeFocusDelay,
		},
		Destinations: intake.Destinations{Call: cfg.BookingPath, Request: cfg.RequestPath},
		Logger:       logger,
		Metrics:      intakeMetrics,
	})
	if err != nil {
		return nil, nil, err
	}
	closers = append([]func(){sessions.Close}, closers...)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	ses, s3Client := setupAWS(ctx, cfg, logger)
	services := catalog.Default()
	repo := bootstrap.BuildSubmissionRepository(pool, logger)
	notifier := notify.NewService(bootstrap.BuildEmailSender(cfg, ses, logger), notify.ServiceConfig{
		OwnerEmail: cfg.OwnerEmail,
		Location:   bootstrap.LoadLocation(cfg.FormsTimezone, logger),
		Services:   services,
		Metrics:    formsMetrics,
	}, logger)

	var archiver forms.Archiver
	if a := bootstrap.BuildArchiver(cfg, s3Client, logger); a != nil {
		archiver = a
	}

	var siteHandler http.Handler
	if cfg.SiteDir != "" {
		sh, err := site.NewHandler(cfg.SiteDir, site.NewBinder("/intake"), sitePageCacheSize, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("site: %w", err)
		}
		siteHandler = sh
	}

	corsOrigins := cfg.CORSAllowedOrigins
	if len(corsOrigins) == 0 && cfg.PublicBaseURL != "" {
		corsOrigins = []string{cfg.PublicBaseURL}
	}

	handler := router.New(&router.Config{
		Logger: logger,
		Intake: intake.NewHandler(sessions, cfg.Env == "production", logger),
		Forms: forms.NewHandler(forms.Config{
			Repository: repo,
			Notifier:   notifier,
			Archiver:   archiver,
			Catalog:    services,
			Metrics:    formsMetrics,
			Logger:     logger,
		}),
		Chat:               chatbot.NewHandler(chatbot.NewBot(), bootstrap.BuildTranscriptStore(redisClient, chatTranscriptTTL), formsMetrics, logger),
		Catalog:            catalog.NewHandler(services),
		Submissions:        leads.NewHandler(repo, logger),
		Site:               siteHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: corsOrigins,
		HealthChecks:       healthChecks(redisClient, pool),
		FormsRatePerSecond: cfg.FormsRatePerSecond,
		FormsRateBurst:     cfg.FormsRateBurst,
	})

	return &app{handler: handler, sessions: sessions}, cleanup, nil
}

func setupMetrics() (http.Handler, *metrics.IntakeMetrics, *metrics.FormsMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	intakeMetrics := metrics.NewIntakeMetrics(reg)
	formsMetrics := metrics.NewFormsMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), intakeMetrics, formsMetrics
}

// setupAWS returns the SES and S3 clients, or nils when neither email via
// SES nor the archive is configured.
func setupAWS(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.SESAPI, archive.S3API) {
	if cfg.SESFromEmail == "" && cfg.ArchiveBucket == "" {
		return nil, nil
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config; SES and archive disabled", "error", err)
		return nil, nil
	}
	var ses notify.SESAPI
	if cfg.SESFromEmail != "" {
		ses = mainconfig.NewSESClient(awsCfg)
	}
	var s3Client archive.S3API
	if cfg.ArchiveBucket != "" {
		s3Client = mainconfig.NewS3Client(awsCfg, cfg)
	}
	return ses, s3Client
}

func healthChecks(redisClient *redis.Client, pool *pgxpool.Pool) map[string]router.HealthCheck {
	checks := map[string]router.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	return checks
}
