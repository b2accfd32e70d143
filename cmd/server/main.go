// Command server runs the recipe search API.
//
// Startup order matters: configuration, logging, tracing, then the corpus.
// The process refuses to serve without a built index, so an empty or missing
// dataset is fatal here rather than a degraded runtime state. SIGHUP triggers
// an in-place corpus reload; SIGINT/SIGTERM drain and shut down.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	httpapi "github.com/tbourn/go-recipe-backend/internal/http"
	"github.com/tbourn/go-recipe-backend/internal/ingest"
	"github.com/tbourn/go-recipe-backend/internal/observability"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/search"
	"github.com/tbourn/go-recipe-backend/internal/services"
	"github.com/tbourn/go-recipe-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	loader := func(context.Context) ([]domain.Recipe, error) {
		res, err := ingest.LoadCSV(cfg.DataPath, ingest.Options{MaxRecipes: cfg.MaxRecipes})
		if err != nil {
			return nil, err
		}
		if res.Skipped > 0 {
			log.Warn().Int("skipped", res.Skipped).Msg("dropped corrupt dataset rows")
		}
		return res.Recipes, nil
	}

	recipes, err := loader(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataPath).Msg("dataset load failed")
	}
	ix, err := search.Build(recipes)
	if err != nil {
		// Covers the empty-corpus case: nothing to serve, refuse to start.
		log.Fatal().Err(err).Msg("index build failed")
	}
	log.Info().
		Int("recipes", ix.Len()).
		Int("vocabulary", ix.Vocabulary().Size()).
		Msg("recipe index built")

	store := search.NewStore(ix)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	svc := &services.RecipeService{
		Store:  store,
		DB:     db,
		Loader: loader,
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, store, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("server error")
			}
			return
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				// Reload the corpus off the serving path; in-flight requests
				// keep the index they started with.
				go func() {
					if err := svc.Reload(context.Background()); err != nil {
						log.Error().Err(err).Msg("corpus reload failed; previous index kept")
					}
				}()
				continue
			}

			log.Info().Str("signal", sig.String()).Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			err := srv.Shutdown(sctx)
			cancel()
			if err != nil {
				log.Error().Err(err).Msg("server shutdown error")
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			log.Info().Msg("server stopped")
			return
		}
	}
}
