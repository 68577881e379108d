package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaelbrown/catalogplay/internal/api"
	"github.com/kaelbrown/catalogplay/internal/auth"
	"github.com/kaelbrown/catalogplay/internal/catalogapi"
	"github.com/kaelbrown/catalogplay/internal/config"
	"github.com/kaelbrown/catalogplay/internal/discovery"
	"github.com/kaelbrown/catalogplay/internal/history"
	"github.com/kaelbrown/catalogplay/internal/registry"
	"github.com/kaelbrown/catalogplay/internal/trackindex"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("starting catalogplay",
		"http_port", cfg.HTTPPort,
		"catalog_base_url", cfg.CatalogBaseURL,
		"genre", cfg.Genre,
		"discovery_type", cfg.DiscoveryType,
	)

	genre, err := catalogapi.ParseGenre(cfg.Genre)
	if err != nil {
		slog.Error("invalid configured genre", "error", err)
		os.Exit(1)
	}
	discoveryType, err := catalogapi.ParseDiscoveryType(cfg.DiscoveryType)
	if err != nil {
		slog.Error("invalid configured discovery type", "error", err)
		os.Exit(1)
	}
	format, err := catalogapi.ParseFormat(cfg.Format)
	if err != nil {
		slog.Error("invalid configured format", "error", err)
		os.Exit(1)
	}
	recommendedType, err := catalogapi.ParseRecommendedType(cfg.RecommendedType)
	if err != nil {
		slog.Error("invalid configured recommended type", "error", err)
		os.Exit(1)
	}

	histStore := history.LoadOrDefault(cfg.HistoryFile)
	reg := registry.New()
	index := trackindex.New()
	client := catalogapi.NewRestyClient(cfg.CatalogBaseURL, cfg.RequestTimeout)

	// No concrete album-page fetcher ships in this module (out of scope);
	// an operator wiring a real deployment must replace this with one.
	var fetcher catalogapi.AlbumFetcher = catalogapi.UnimplementedAlbumFetcher{}

	query := catalogapi.DiscoveryQuery{
		Genre:           genre,
		DiscoveryType:   discoveryType,
		Format:          format,
		RecommendedType: recommendedType,
	}

	discoveryCtx := discovery.New(reg, index, histStore, client, fetcher, query)

	authenticator := auth.New(auth.Config{
		Username:  cfg.OperatorUsername,
		Password:  cfg.OperatorPassword,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  24 * time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutdown signal received")
		cancel()
	}()

	if err := discoveryCtx.Start(ctx); err != nil {
		slog.Error("failed to start discovery pipeline", "error", err)
		os.Exit(1)
	}

	httpServer := api.NewServer(":"+cfg.HTTPPort, discoveryCtx, authenticator)
	if err := httpServer.Start(ctx); err != nil {
		slog.Error("control API server error", "error", err)
	}

	discoveryCtx.Stop()
	slog.Info("catalogplay stopped")
}
