package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lectio/aula/internal/adapters/http/api"
	"github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/adapters/repository/postgres"
	"github.com/lectio/aula/internal/app/award"
	"github.com/lectio/aula/internal/app/board"
	"github.com/lectio/aula/internal/app/evaluation"
	"github.com/lectio/aula/internal/app/schedule"
	"github.com/lectio/aula/internal/config"
	"github.com/lectio/aula/pkg/logger"
	"github.com/lectio/aula/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// .env is optional; real deployments provide the environment directly.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Error(ctx, "invalid log level", logger.Error(err))
		os.Exit(1)
	}

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to initialize store", logger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	scheduleSvc := schedule.New(store, schedule.WithLogger(log.Named("schedule")))
	evaluationSvc := evaluation.New(store, evaluation.WithLogger(log.Named("evaluation")))
	boardSvc := board.New(store,
		board.WithBoardSpace(cfg.BoardPrefix, cfg.BoardCount),
		board.WithLogger(log.Named("board")))
	awardSvc := award.New(store, evaluationSvc, award.WithLogger(log.Named("award")))

	mux := http.NewServeMux()
	api.NewServer(scheduleSvc, evaluationSvc, boardSvc, awardSvc).Register(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "server listening",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}

// buildStore selects the repository backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		return repository.NewMemStore(), func() {}, nil
	}
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return nil, nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return postgres.New(pool), pool.Close, nil
}
