// Package events provides the in-process event hub for update-run lifecycle
// notifications. WebSocket clients subscribe to it for live progress.
package events

import (
	"time"
)

// EventType identifies a lifecycle event in an update run
type EventType string

const (
	// UpdateStarted - an update run began (manual or scheduled)
	UpdateStarted EventType = "update_started"
	// GameScraped - fresh draws were fetched for one game
	GameScraped EventType = "game_scraped"
	// StatsPublished - a game's artifacts were validated and published
	StatsPublished EventType = "stats_published"
	// ValidationFailed - a computed artifact failed its consistency checks
	// and was not published
	ValidationFailed EventType = "validation_failed"
	// UpdateCompleted - the run finished, all games processed
	UpdateCompleted EventType = "update_completed"
	// UpdateFailed - the run finished with at least one game in error
	UpdateFailed EventType = "update_failed"
)

// Event is one lifecycle notification. RunID ties all events of one update
// run together; Game is empty for run-level events.
type Event struct {
	Type      EventType              `json:"type"`
	RunID     string                 `json:"run_id"`
	Game      string                 `json:"game,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, runID, game string, data map[string]interface{}) Event {
	return Event{
		Type:      eventType,
		RunID:     runID,
		Game:      game,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
