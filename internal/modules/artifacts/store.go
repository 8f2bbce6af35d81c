// Package artifacts publishes computed statistics artifacts: an in-memory
// store for API reads, deterministic JSON files on disk, and optional
// object-store sync.
package artifacts

import (
	"sync"
	"time"

	"github.com/drawlytics/drawlytics/internal/domain"
	"github.com/drawlytics/drawlytics/internal/modules/stats"
)

// Entry is one published artifact with its publish time.
type Entry struct {
	Artifact    *stats.StatsArtifact
	PublishedAt time.Time
}

// Store holds the latest published artifact per game.
type Store struct {
	mu      sync.RWMutex
	entries map[domain.GameType]Entry
}

// NewStore creates an empty artifact store.
func NewStore() *Store {
	return &Store{
		entries: make(map[domain.GameType]Entry),
	}
}

// Set replaces the stored artifact for a game.
func (s *Store) Set(game domain.GameType, artifact *stats.StatsArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[game] = Entry{
		Artifact:    artifact,
		PublishedAt: time.Now().UTC(),
	}
}

// Get returns the latest artifact for a game, if one has been published.
func (s *Store) Get(game domain.GameType) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[game]
	return entry, ok
}

// Games returns the games with a published artifact.
func (s *Store) Games() []domain.GameType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []domain.GameType
	for _, game := range domain.AllGames {
		if _, ok := s.entries[game]; ok {
			games = append(games, game)
		}
	}
	return games
}
