package draws

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// Snapshot is a point-in-time copy of a game's merged draw history, kept as
// a fast-loading cache next to the database.
type Snapshot struct {
	Game    domain.GameType       `msgpack:"game"`
	SavedAt time.Time             `msgpack:"saved_at"`
	Draws   domain.DrawCollection `msgpack:"draws"`
}

// SnapshotStore persists msgpack snapshots of draw histories under a cache
// directory.
type SnapshotStore struct {
	dir string
	log zerolog.Logger
}

// NewSnapshotStore creates a snapshot store rooted at dataDir/cache.
func NewSnapshotStore(dataDir string, log zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		dir: filepath.Join(dataDir, "cache"),
		log: log.With().Str("component", "snapshot_store").Logger(),
	}
}

// Save writes a snapshot for a game. The write is atomic: a temp file is
// written first and renamed over the target.
func (s *SnapshotStore) Save(game domain.GameType, drawList domain.DrawCollection) error {
	if !game.Valid() {
		return fmt.Errorf("snapshot save: %w: %q", domain.ErrUnknownGame, game)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	snapshot := Snapshot{
		Game:    game,
		SavedAt: time.Now().UTC(),
		Draws:   drawList,
	}

	data, err := msgpack.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for %s: %w", game, err)
	}

	target := s.path(game)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot temp file: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalize snapshot for %s: %w", game, err)
	}

	s.log.Debug().
		Str("game", string(game)).
		Int("draws", len(drawList)).
		Str("path", target).
		Msg("Saved draw snapshot")

	return nil
}

// Load reads the snapshot for a game. Returns os.ErrNotExist (wrapped) when
// no snapshot has been saved yet.
func (s *SnapshotStore) Load(game domain.GameType) (*Snapshot, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("snapshot load: %w: %q", domain.ErrUnknownGame, game)
	}

	data, err := os.ReadFile(s.path(game))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot for %s: %w", game, err)
	}

	var snapshot Snapshot
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", game, err)
	}

	return &snapshot, nil
}

func (s *SnapshotStore) path(game domain.GameType) string {
	return filepath.Join(s.dir, game.FileStem()+"-draws.msgpack")
}
