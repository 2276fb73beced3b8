package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/lukemoll/replay/internal/catalog"
	"github.com/lukemoll/replay/internal/models"
	"github.com/lukemoll/replay/internal/recommend"
)

// Recommender is the pipeline capability the API fronts.
type Recommender interface {
	Recommend(ctx context.Context, seed recommend.SeedQuery) ([]recommend.Song, error)
}

// MetricStore persists and lists engagement events.
type MetricStore interface {
	Insert(ctx context.Context, m *models.Metric) error
	List(ctx context.Context) ([]models.Metric, error)
}

type App struct {
	Recommender Recommender
	Metrics     MetricStore
	// MetricsToken, when non-empty, must match the X-Metrics-Token header
	// on POST /log.
	MetricsToken string
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

type recommendationsResponse struct {
	Results []recommend.Song `json:"results"`
}

func (app *App) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var seed recommend.SeedQuery
	if err := json.NewDecoder(r.Body).Decode(&seed); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := app.Recommender.Recommend(r.Context(), seed)
	if err != nil {
		app.writeRecommendError(w, err)
		return
	}

	if results == nil {
		results = []recommend.Song{}
	}

	log.Info().
		Str("title", seed.Title).
		Str("artist", seed.Artist).
		Int("results", len(results)).
		Msg("Recommendation request served")

	writeJSON(w, http.StatusOK, recommendationsResponse{Results: results})
}

// writeRecommendError maps pipeline failures onto the response taxonomy:
// rejected input is the caller's fault, quota exhaustion gets its own
// status so the UI can show a "come back later" state, everything else is a
// plain upstream failure with no internals exposed.
func (app *App) writeRecommendError(w http.ResponseWriter, err error) {
	var inputErr *recommend.InputError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, inputErr.Reason)
	case catalog.IsQuota(err):
		log.Warn().Err(err).Msg("Catalog quota exhausted")
		writeError(w, http.StatusTooManyRequests, "API_LIMIT_REACHED")
	default:
		log.Error().Err(err).Msg("Recommendation request failed")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

type logEventRequest struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	SongID    string `json:"songId"`
	Details   string `json:"details"`
}

func (app *App) LogHandler(w http.ResponseWriter, r *http.Request) {
	if app.MetricsToken != "" && r.Header.Get("X-Metrics-Token") != app.MetricsToken {
		writeError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	var req logEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	eventType := models.EventType(strings.TrimSpace(req.EventType))
	if !eventType.Valid() || strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	metric := models.NewMetric(eventType, req.UserID, req.SessionID, req.SongID, req.Details)
	if err := app.Metrics.Insert(r.Context(), metric); err != nil {
		log.Error().Err(err).Msg("Failed to store metric")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, metric)
}

func (app *App) ExportHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := app.Metrics.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to export metrics")
		writeError(w, http.StatusInternalServerError, "Failed to export metrics")
		return
	}

	if metrics == nil {
		metrics = []models.Metric{}
	}
	writeJSON(w, http.StatusOK, metrics)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
