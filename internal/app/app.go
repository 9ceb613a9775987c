package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ratesync/internal/adapters/httpclient"
	"ratesync/internal/adapters/notion"
	"ratesync/internal/api"
	"ratesync/internal/config"
	"ratesync/internal/domain"
	httpserver "ratesync/internal/platform/http"
	"ratesync/internal/platform/logging"
	"ratesync/internal/platform/retry"
	"ratesync/internal/rate"
	"ratesync/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrConfig):
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// Run loads the config and performs one sync, or keeps syncing on a schedule behind the
// status API when an interval is configured.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		logrus.WithError(err).Error("Config initialization failed")
		return err
	}
	logging.Setup(os.Stdout, appCfg.Logging.Level, appCfg.Logging.Format)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, appCfg)
}

func run(ctx context.Context, appCfg *config.AppConfig) error {
	reg := prometheus.NewRegistry()
	status := rate.NewStatusStore()
	syncer := newSyncer(ctx, appCfg, reg, status)

	interval := time.Duration(appCfg.Scheduler.IntervalSeconds) * time.Second
	if interval <= 0 {
		_, err := syncer.Run(ctx)
		return err
	}

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	scheduler := rate.NewScheduler(syncer, interval)
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	syncHandler := handler.NewSyncHandler(status, scheduler)
	router := api.NewRouter(syncHandler, reg)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func newSyncer(ctx context.Context, appCfg *config.AppConfig, reg prometheus.Registerer, status *rate.StatusStore) *rate.Syncer {
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second

	// External clients
	feedClient := httpclient.NewFeedClient(
		&http.Client{Timeout: httpTimeout},
		appCfg.Feed.URLs,
		retry.Linear(appCfg.Retry.FeedAttempts, time.Duration(appCfg.Retry.FeedBackoffMs)*time.Millisecond),
	)
	notionClient := notion.NewClient(
		notion.NewHTTPClient(ctx, appCfg.Notion.Token, httpTimeout),
		appCfg.Notion.BaseURL,
		appCfg.Notion.Version,
		retry.Linear(appCfg.Retry.DestinationAttempts, time.Duration(appCfg.Retry.DestinationBackoffMs)*time.Millisecond),
	)

	return rate.NewSyncer(feedClient, notionClient, rate.SyncConfig{
		DatabaseID:      appCfg.Notion.DatabaseID,
		Mode:            rate.Mode(appCfg.Sync.Mode),
		Allow:           rate.ParseAllowList(appCfg.Sync.CurrencyFilter),
		ContinueOnError: appCfg.Sync.ContinueOnError,
	}, rate.NewMetrics(reg), status)
}
