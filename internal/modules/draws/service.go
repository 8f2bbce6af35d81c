package draws

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// Service merges freshly scraped drawings into the persisted history and
// serves read queries over it.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new draw service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "draws").Logger(),
	}
}

// Merge combines scraped draws with the persisted history for a game.
// Scraped draws take precedence on date collisions, the combined collection
// is normalized (deduplicated, sorted newest-first) and new rows are
// persisted. Returns the merged history and the number of newly persisted
// dates.
func (s *Service) Merge(ctx context.Context, game domain.GameType, scraped domain.DrawCollection) (domain.DrawCollection, int, error) {
	if !game.Valid() {
		return nil, 0, fmt.Errorf("merge: %w: %q", domain.ErrUnknownGame, game)
	}

	for _, draw := range scraped {
		if err := draw.Validate(); err != nil {
			return nil, 0, fmt.Errorf("merge %s: %w", game, err)
		}
	}

	persisted, err := s.repo.ListByGame(ctx, game, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("merge %s: %w", game, err)
	}

	// Scraped entries come first so they win date-collision dedupe
	merged := make(domain.DrawCollection, 0, len(scraped)+len(persisted))
	merged = append(merged, scraped...)
	merged = append(merged, persisted...)
	merged = merged.Normalize()

	added, err := s.repo.UpsertMany(ctx, merged)
	if err != nil {
		return nil, 0, fmt.Errorf("merge %s: %w", game, err)
	}

	s.log.Info().
		Str("game", string(game)).
		Int("scraped", len(scraped)).
		Int("total", len(merged)).
		Int("new", added).
		Msg("Merged scraped draws into history")

	return merged, added, nil
}

// RestoreFromSnapshots seeds empty game histories from the msgpack snapshot
// cache, so a fresh database on a machine that still has its cache directory
// recovers without a full re-scrape. Games with persisted rows are left
// untouched; a missing snapshot is fine (first run). Returns the number of
// restored draws across all games.
func (s *Service) RestoreFromSnapshots(ctx context.Context, snapshots *SnapshotStore) (int, error) {
	restored := 0

	for _, game := range domain.AllGames {
		count, err := s.repo.Count(ctx, game)
		if err != nil {
			return restored, fmt.Errorf("snapshot restore %s: %w", game, err)
		}
		if count > 0 {
			continue
		}

		snapshot, err := snapshots.Load(game)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			s.log.Warn().Err(err).Str("game", string(game)).Msg("Skipping unreadable draw snapshot")
			continue
		}

		added, err := s.repo.UpsertMany(ctx, snapshot.Draws)
		if err != nil {
			return restored, fmt.Errorf("snapshot restore %s: %w", game, err)
		}
		restored += added

		s.log.Info().
			Str("game", string(game)).
			Int("draws", added).
			Time("saved_at", snapshot.SavedAt).
			Msg("Restored draw history from snapshot")
	}

	return restored, nil
}

// History returns persisted draws for a game, newest first. A limit <= 0
// returns everything.
func (s *Service) History(ctx context.Context, game domain.GameType, limit int) (domain.DrawCollection, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("history: %w: %q", domain.ErrUnknownGame, game)
	}

	return s.repo.ListByGame(ctx, game, limit)
}

// LatestDate returns the most recent persisted draw date for a game.
func (s *Service) LatestDate(ctx context.Context, game domain.GameType) (string, error) {
	if !game.Valid() {
		return "", fmt.Errorf("latest date: %w: %q", domain.ErrUnknownGame, game)
	}

	return s.repo.LatestDate(ctx, game)
}

// Count returns the number of persisted draws for a game.
func (s *Service) Count(ctx context.Context, game domain.GameType) (int, error) {
	if !game.Valid() {
		return 0, fmt.Errorf("count: %w: %q", domain.ErrUnknownGame, game)
	}

	return s.repo.Count(ctx, game)
}
