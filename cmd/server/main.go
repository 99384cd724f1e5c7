// Command server runs the ShilpkaarAI marketplace API.
//
// Configuration comes from the environment (see internal/config), optionally
// preloaded from a .env file in the working directory.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/shilpkaar/marketplace-api/internal/cache"
	"github.com/shilpkaar/marketplace-api/internal/config"
	httpapi "github.com/shilpkaar/marketplace-api/internal/http"
	"github.com/shilpkaar/marketplace-api/internal/observability"
	"github.com/shilpkaar/marketplace-api/internal/repo"
	"github.com/shilpkaar/marketplace-api/internal/search"
	"github.com/shilpkaar/marketplace-api/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownGrace = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := observability.SetupLogger(os.Stdout, observability.LogOptions{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: sysutil.FirstNonEmpty(cfg.OTEL.ServiceName, observability.DefaultServiceName),
	})

	ctx, stop := sysutil.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// run wires dependencies, serves until ctx is cancelled and then drains.
func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}
	if cfg.SeedPath != "" {
		res, err := repo.SeedFromPath(ctx, db, cfg.SeedPath)
		if err != nil {
			return err
		}
		logger.Info().Int64("users", res.Users).Int64("products", res.Products).Str("path", cfg.SeedPath).Msg("seeded catalog")
	}

	counts := connectCounts(ctx, cfg.Redis, logger)
	if c, ok := counts.(interface{ Close() error }); ok {
		defer c.Close()
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	svcs := httpapi.RegisterRoutes(engine, httpapi.Deps{
		DB:     db,
		Index:  search.NewCatalog(nil),
		Counts: counts,
	}, cfg)
	n, err := svcs.Products.Reindex(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("products", n).Msg("search index built")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(sctx)
}

// connectCounts returns the Redis count cache, or a no-op cache when Redis is
// not configured or unreachable.
func connectCounts(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) cache.CountCache {
	rc, closeFn, err := cache.Connect(ctx, cfg)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("favorites count cache disabled")
		return cache.Nop{}
	case rc == nil:
		return cache.Nop{}
	}
	return closingCache{Redis: rc, close: closeFn}
}

type closingCache struct {
	*cache.Redis
	close func() error
}

func (c closingCache) Close() error { return c.close() }

func closeDB(db *gorm.DB, logger zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn().Err(err).Msg("close database")
	}
}
