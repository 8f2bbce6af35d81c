package server

import (
	"context"
	"encoding/json"
	"net/http"
)

// handleHealth handles health check requests. Unhealthy means the draws
// database no longer answers a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.drawsDB.QuickCheck(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Health check failed")
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"service": "drawlytics",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "drawlytics",
	})
}

// handleTriggerUpdate starts an update run in the background.
// Returns 409 when a run is already executing.
func (s *Server) handleTriggerUpdate(w http.ResponseWriter, r *http.Request) {
	if s.updateJob.Running() {
		s.writeJSON(w, http.StatusConflict, map[string]string{
			"status":  "error",
			"message": "update already in progress",
		})
		return
	}

	s.log.Info().Msg("Manual update triggered")

	go func() {
		if err := s.updateJob.Run(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("Manual update failed")
		}
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "update started",
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
