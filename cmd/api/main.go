package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dreamworld/internal/adapter/repo"
	"dreamworld/internal/domain"
	"dreamworld/internal/generation"
	"dreamworld/internal/http/handlers"
	httpapi "dreamworld/internal/http/httpapi"
	"dreamworld/internal/infra"
	"dreamworld/internal/infra/geoip"
	"dreamworld/internal/middleware"
	"dreamworld/internal/photomaker"
	"dreamworld/internal/preset"
	pmclient "dreamworld/internal/providers/photomaker"
	"dreamworld/internal/storage"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	// Katalog tema
	presets := preset.NewStore(cfg.PresetFile, preset.WithLogger(&logger))
	if err := presets.EnsureCatalogExists(); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.PresetFile).Msg("failed to prepare preset catalog")
	}

	uploads, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload directory")
	}
	outputs, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare output directory")
	}

	// Sidecar PhotoMaker: tokenizer, detektor wajah, dan pipeline
	client := pmclient.NewClient(pmclient.Options{
		BaseURL:        cfg.PhotoMakerURL,
		Logger:         &logger,
		RequestTimeout: cfg.PhotoMakerTimeout,
	})
	builder := photomaker.NewBuilder(photomaker.Options{
		Tokenizer:           client,
		Detector:            client,
		Logger:              &logger,
		DetectConcurrency:   cfg.DetectConcurrency,
		DetectRatePerSecond: cfg.DetectRatePerSecond,
		EmbeddingTTL:        cfg.FaceCacheTTL,
	})

	// Riwayat: Postgres bila DATABASE_URL diisi, selain itu di memori
	var runs domain.RunRepository = repo.NewMemoryRunRepository(repo.DefaultHistoryLimit)
	if cfg.HistoryEnabled() {
		if err := infra.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		runs = repo.NewRunRepository(infra.NewSQLRunner(dbpool, logger))
	}

	svc, err := generation.NewService(generation.Options{
		Presets:            presets,
		Stager:             storage.NewStager(uploads, &logger),
		Collector:          storage.NewCollector(outputs),
		Builder:            builder,
		Pipeline:           client,
		Runs:               runs,
		Logger:             logger,
		DefaultLocale:      cfg.DefaultLocale,
		DefaultAspectRatio: cfg.DefaultAspectRatio,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation service")
	}

	// GeoIP opsional untuk menebak locale
	countries, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer countries.Close()
	var lookup middleware.CountryLookup
	if countries.Enabled() {
		lookup = countries.CountryCode
	}

	app := handlers.NewApp(svc, outputs, logger, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   lookup,
	})

	// HTTP server wrapper dari infra
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("photomaker", client.BaseURL()).
			Bool("history_db", cfg.HistoryEnabled()).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
