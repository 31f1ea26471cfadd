// Command lendingd runs the library lending service: PostgreSQL
// storage, the request pipelines, and the HTTP/JSON surface.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/librarylab/lending-go/app"
	"github.com/librarylab/lending-go/config"
	"github.com/librarylab/lending-go/httpapi"
	"github.com/librarylab/lending-go/oteladapters"
	"github.com/librarylab/lending-go/postgresengine"
	"github.com/librarylab/lending-go/shell/memcache"
)

const (
	instrumentationName = "github.com/librarylab/lending-go"
	shutdownTimeout     = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("lendingd failed", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := oteladapters.NewSlogLogger(slogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to storage: %w", err)
	}
	defer cleanup()

	cache := memcache.New(memcache.WithTTL(cfg.CacheTTL))

	// Metrics and tracing run against the global OpenTelemetry
	// providers, which are no-ops until an SDK is installed.
	appOptions := []app.Option{
		app.WithCache(cache),
		app.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))),
		app.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))),
	}

	if cfg.OTelLogs {
		appOptions = append(appOptions, app.WithContextualLogger(oteladapters.NewSlogBridgeLogger(instrumentationName)))
	} else {
		appOptions = append(appOptions, app.WithLogger(logger))
	}

	application := app.New(store.Books(), store.Users(), store.Loans(), appOptions...)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(application, httpapi.WithRateLimiter(limiter)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slogger.Info("lendingd listening", "addr", cfg.HTTPAddr, "driver", cfg.DBDriver)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			return shutdownErr
		}

		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

// buildStore connects with the configured database driver and returns
// the store together with its connection cleanup.
func buildStore(ctx context.Context, cfg config.Config, logger *oteladapters.SlogLogger) (*postgresengine.Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLX:
		db, err := config.NewSQLXDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, postgresengine.WithLogger(logger))
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case config.DriverSQL:
		db, err := config.NewSQLDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, postgresengine.WithLogger(logger))
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	default:
		pool, err := config.NewPGXPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, pool.Close, nil
	}
}
