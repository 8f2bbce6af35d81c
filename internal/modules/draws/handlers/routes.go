// Package handlers provides HTTP handlers for the draws module.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// DrawReader serves read queries over the persisted draw history.
type DrawReader interface {
	History(ctx context.Context, game domain.GameType, limit int) (domain.DrawCollection, error)
	LatestDate(ctx context.Context, game domain.GameType) (string, error)
	Count(ctx context.Context, game domain.GameType) (int, error)
}

// Handler handles draw history requests.
type Handler struct {
	service DrawReader
	log     zerolog.Logger
}

// NewHandler creates a new draws handler.
func NewHandler(service DrawReader, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "draws").Logger(),
	}
}

// RegisterRoutes registers draw routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/games/{game}/draws", h.HandleListDraws)
}

// HandleListDraws returns the draw history for a game, newest first.
// Supports an optional ?limit=N query parameter.
func (h *Handler) HandleListDraws(w http.ResponseWriter, r *http.Request) {
	game, err := domain.ParseGameType(chi.URLParam(r, "game"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "unknown game")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	drawList, err := h.service.History(r.Context(), game, limit)
	if err != nil {
		h.log.Error().Err(err).Str("game", string(game)).Msg("Failed to list draws")
		h.writeError(w, http.StatusInternalServerError, "failed to list draws")
		return
	}

	latest, err := h.service.LatestDate(r.Context(), game)
	if err != nil {
		h.log.Error().Err(err).Str("game", string(game)).Msg("Failed to get latest draw date")
		h.writeError(w, http.StatusInternalServerError, "failed to list draws")
		return
	}

	total, err := h.service.Count(r.Context(), game)
	if err != nil {
		h.log.Error().Err(err).Str("game", string(game)).Msg("Failed to count draws")
		h.writeError(w, http.StatusInternalServerError, "failed to list draws")
		return
	}

	if drawList == nil {
		drawList = domain.DrawCollection{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"game":       game,
		"total":      total,
		"latestDate": latest,
		"draws":      drawList,
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
