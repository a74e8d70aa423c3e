package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
	"github.com/Harsh00198/Auraluxe-Music/internal/config"
	database "github.com/Harsh00198/Auraluxe-Music/internal/db"
	"github.com/Harsh00198/Auraluxe-Music/internal/logging"
	"github.com/Harsh00198/Auraluxe-Music/internal/storage"

	// Use an alias to prevent naming collisions with the 'server' variable
	apiserver "github.com/Harsh00198/Auraluxe-Music/internal/api/server"
)

func main() {
	// 1. Setup Configuration
	cfg := config.Load()

	logger := logging.New(cfg.Server.LogLevel, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("Starting Auraluxe API server")

	// 2. Initialize Infrastructure
	db, err := database.New(cfg)
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3. Run Database Migrations
	if err := db.AutoMigrate(); err != nil {
		logger.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	// 4. Storage
	store := storage.New(cfg)

	// 5. Catalog providers
	p := cfg.Providers
	providers := catalog.NewProviders(catalog.Settings{
		Timeout:             time.Duration(p.TimeoutSeconds) * time.Second,
		RateLimit:           p.RateLimit,
		DeezerURL:           p.DeezerURL,
		ITunesURL:           p.ITunesURL,
		LastFmURL:           p.LastFmURL,
		LastFmAPIKey:        p.LastFmAPIKey,
		YouTubeURL:          p.YouTubeURL,
		YouTubeAPIKey:       p.YouTubeAPIKey,
		SpotifyURL:          p.SpotifyURL,
		SpotifyTokenURL:     p.SpotifyTokenURL,
		SpotifyClientID:     p.SpotifyClientID,
		SpotifyClientSecret: p.SpotifyClientSecret,
	})
	agg := catalog.NewAggregator(providers, catalog.AggregatorOptions{
		ProviderTimeout: time.Duration(p.TimeoutSeconds) * time.Second,
		TrendingTTL:     time.Duration(p.TrendingTTLSeconds) * time.Second,
		Logger:          logger,
	})
	logger.Info("Catalog ready", "providers", agg.Providers())

	// 6. Setup Metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/_metrics", promhttp.Handler())
		logger.Info("Metrics exposed", "addr", cfg.Server.MetricsPort, "path", "/_metrics")
		if err := http.ListenAndServe(cfg.Server.MetricsPort, mux); err != nil {
			logger.Warn("Metrics server error", "error", err)
		}
	}()

	// 7. Start Server
	srv := apiserver.New(cfg, db, store, agg, logger)

	logger.Info("API server listening", "addr", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
