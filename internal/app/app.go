package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/watchlist-backend/internal/adapter/postgres"
	watchlistrepo "github.com/heartmarshall/watchlist-backend/internal/adapter/postgres/watchlist"
	"github.com/heartmarshall/watchlist-backend/internal/adapter/provider/tmdb"
	"github.com/heartmarshall/watchlist-backend/internal/auth"
	"github.com/heartmarshall/watchlist-backend/internal/config"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist"
	"github.com/heartmarshall/watchlist-backend/internal/transport/middleware"
	"github.com/heartmarshall/watchlist-backend/internal/transport/rest"
	"github.com/heartmarshall/watchlist-backend/migrations"
)

// Run is the application entry point. It wires the HTTP server and blocks
// until ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("catalog_enabled", cfg.Catalog.Enabled()),
	)

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, migrations.FS, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	svc := NewWatchlistService(cfg, pool, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Logger:      logger,
		Health:      rest.NewHealthHandler(pool, BuildVersion(), cfg.Catalog.Enabled()),
		Watchlist:   rest.NewWatchlistHandler(svc, cfg.Server.MaxUploadBytes, logger),
		Tokens:      auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.ClockSkew),
		RateLimiter: limiter,
		CORS:        cfg.CORS,
		RateLimit:   cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// NewWatchlistService wires the watchlist service to postgres and, when an
// API key is configured, the TMDB catalog. Without one the catalog stays an
// untyped nil and imports rely on the ids in the file.
func NewWatchlistService(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) *watchlist.Service {
	repo := watchlistrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	if !cfg.Catalog.Enabled() {
		logger.Warn("TMDB api key not set, catalog lookups disabled")
		return watchlist.NewService(logger, repo, tx, nil, cfg.Watchlist)
	}
	return watchlist.NewService(logger, repo, tx, tmdb.NewProvider(cfg.Catalog, logger), cfg.Watchlist)
}
