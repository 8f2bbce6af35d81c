// Package handlers provides HTTP handlers for published statistics artifacts.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/domain"
	"github.com/drawlytics/drawlytics/internal/modules/artifacts"
)

// Handler serves the latest published artifact per game.
type Handler struct {
	store *artifacts.Store
	log   zerolog.Logger
}

// NewHandler creates a new artifacts handler.
func NewHandler(store *artifacts.Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("handler", "artifacts").Logger(),
	}
}

// RegisterRoutes registers artifact routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/games/{game}/stats", h.HandleGetStats)
}

// HandleGetStats returns the latest published statistics artifact for a game.
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	game, err := domain.ParseGameType(chi.URLParam(r, "game"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "unknown game")
		return
	}

	entry, ok := h.store.Get(game)
	if !ok {
		h.writeError(w, http.StatusNotFound, "statistics not yet computed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"publishedAt": entry.PublishedAt,
		"stats":       entry.Artifact,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
