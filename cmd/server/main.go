package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lukemoll/replay/internal/ai"
	"github.com/lukemoll/replay/internal/api"
	"github.com/lukemoll/replay/internal/catalog"
	"github.com/lukemoll/replay/internal/config"
	"github.com/lukemoll/replay/internal/database"
	"github.com/lukemoll/replay/internal/logging"
	"github.com/lukemoll/replay/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(logging.Config{})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	metricRepo := database.NewMetricRepository(db)

	if cfg.AI.APIKey == "" {
		log.Warn().Msg("OpenAI API key not configured; recommendation requests will fail")
	}
	aiClient := ai.NewClient(cfg.AI.APIKey, cfg.AI.Model)

	var resolver recommend.Resolver
	var expander recommend.Expander
	switch cfg.Catalog.Provider {
	case "youtube":
		resolver, err = catalog.NewYouTubeResolver(context.Background(), cfg.Catalog.YouTubeAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize YouTube resolver")
		}
	case "spotify":
		expander, err = catalog.NewSpotifyExpander(
			cfg.Catalog.SpotifyClientID,
			cfg.Catalog.SpotifyClientSecret,
			cfg.Catalog.MaxResults,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Spotify expander")
		}
	}

	service := recommend.NewService(aiClient, resolver, expander, recommend.Config{
		Suggestions: cfg.AI.Suggestions,
		MaxResults:  cfg.Catalog.MaxResults,
	})

	app := &api.App{
		Recommender:  service,
		Metrics:      metricRepo,
		MetricsToken: cfg.Server.MetricsToken,
	}

	router := api.NewRouter(app)

	log.Info().
		Str("port", cfg.Server.Port).
		Str("provider", cfg.Catalog.Provider).
		Str("db", cfg.Database.Path).
		Int("suggestions", cfg.AI.Suggestions).
		Int("max_results", cfg.Catalog.MaxResults).
		Msg("Server starting")

	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
