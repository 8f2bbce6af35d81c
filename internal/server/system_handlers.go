package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/drawlytics/drawlytics/internal/database"
	"github.com/drawlytics/drawlytics/internal/domain"
	"github.com/drawlytics/drawlytics/internal/modules/draws"
)

// SystemHandlers serves system monitoring endpoints.
type SystemHandlers struct {
	log         zerolog.Logger
	drawsDB     *database.DB
	drawService *draws.Service
	startupTime time.Time
}

// NewSystemHandlers creates new system handlers.
func NewSystemHandlers(log zerolog.Logger, drawsDB *database.DB, drawService *draws.Service) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		drawsDB:     drawsDB,
		drawService: drawService,
		startupTime: time.Now(),
	}
}

// HandleSystemStatus returns process and per-game status.
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	games := make(map[string]interface{}, len(domain.AllGames))
	for _, game := range domain.AllGames {
		count, err := h.drawService.Count(r.Context(), game)
		if err != nil {
			h.log.Error().Err(err).Str("game", string(game)).Msg("Failed to count draws")
			continue
		}
		latest, err := h.drawService.LatestDate(r.Context(), game)
		if err != nil {
			h.log.Error().Err(err).Str("game", string(game)).Msg("Failed to get latest draw date")
			continue
		}
		games[string(game)] = map[string]interface{}{
			"draws":       count,
			"latest_draw": latest,
		}
	}

	h.writeJSON(w, map[string]interface{}{
		"status":       "ok",
		"uptime_hours": time.Since(h.startupTime).Hours(),
		"cpu_percent":  cpuPercent,
		"ram_percent":  ramPercent,
		"goroutines":   runtime.NumGoroutine(),
		"games":        games,
	})
}

// HandleDatabaseStats returns draw database statistics.
// GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.drawsDB.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "failed to get database stats", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"name":           h.drawsDB.Name(),
		"size_bytes":     stats.SizeBytes,
		"wal_size_bytes": stats.WALSizeBytes,
		"page_count":     stats.PageCount,
		"page_size":      stats.PageSize,
		"freelist_count": stats.FreelistCount,
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms CPU sampling window to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
