package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/domain"
	"github.com/drawlytics/drawlytics/internal/modules/stats"
)

// Uploader pushes published files to an object store. Satisfied by
// objectstore.Client; nil disables sync.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Downloader retrieves previously synced files from an object store.
// Satisfied by objectstore.Client.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Publisher writes artifact and draw files to the data directory and keeps
// the in-memory store current. Writes are atomic (temp file + rename) and
// the JSON encoding is deterministic, so unchanged inputs produce
// byte-identical files.
type Publisher struct {
	dataDir  string
	store    *Store
	uploader Uploader
	log      zerolog.Logger
}

// NewPublisher creates a publisher rooted at dataDir. uploader may be nil.
func NewPublisher(dataDir string, store *Store, uploader Uploader, log zerolog.Logger) *Publisher {
	return &Publisher{
		dataDir:  dataDir,
		store:    store,
		uploader: uploader,
		log:      log.With().Str("component", "publisher").Logger(),
	}
}

// Publish writes the game's draw file (pb.json / mm.json) and stats file
// (pb-stats.json / mm-stats.json), updates the store, and syncs both files
// to the object store when one is configured.
func (p *Publisher) Publish(ctx context.Context, game domain.GameType, artifact *stats.StatsArtifact, drawList domain.DrawCollection) error {
	if !game.Valid() {
		return fmt.Errorf("publish: %w: %q", domain.ErrUnknownGame, game)
	}

	if drawList == nil {
		drawList = domain.DrawCollection{}
	}

	drawData, err := json.MarshalIndent(drawList, "", "  ")
	if err != nil {
		return fmt.Errorf("publish %s: failed to encode draws: %w", game, err)
	}

	statsData, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("publish %s: failed to encode stats: %w", game, err)
	}

	stem := game.FileStem()
	drawFile := stem + ".json"
	statsFile := stem + "-stats.json"

	if err := p.writeAtomic(drawFile, drawData); err != nil {
		return fmt.Errorf("publish %s: %w", game, err)
	}
	if err := p.writeAtomic(statsFile, statsData); err != nil {
		return fmt.Errorf("publish %s: %w", game, err)
	}

	p.store.Set(game, artifact)

	p.log.Info().
		Str("game", string(game)).
		Int("draws", len(drawList)).
		Str("stats_file", statsFile).
		Msg("Published artifacts")

	if p.uploader != nil {
		if err := p.uploader.Upload(ctx, "draws/"+drawFile, bytes.NewReader(drawData), "application/json"); err != nil {
			return fmt.Errorf("publish %s: draw sync: %w", game, err)
		}
		if err := p.uploader.Upload(ctx, "stats/"+statsFile, bytes.NewReader(statsData), "application/json"); err != nil {
			return fmt.Errorf("publish %s: stats sync: %w", game, err)
		}
		p.log.Info().Str("game", string(game)).Msg("Synced artifacts to object store")
	}

	return nil
}

// LoadFromDisk populates the store from previously published stats files.
// Missing files are fine (first run); corrupt files are logged and skipped.
func (p *Publisher) LoadFromDisk() {
	for _, game := range domain.AllGames {
		path := filepath.Join(p.dataDir, game.FileStem()+"-stats.json")

		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				p.log.Warn().Err(err).Str("path", path).Msg("Failed to read published stats file")
			}
			continue
		}

		var artifact stats.StatsArtifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			p.log.Warn().Err(err).Str("path", path).Msg("Skipping corrupt stats file")
			continue
		}

		p.store.Set(game, &artifact)
		p.log.Info().Str("game", string(game)).Msg("Loaded published stats from disk")
	}
}

// RestoreFromObjectStore pulls published files that are missing locally, so
// a cold start on an empty data directory recovers the last synced state.
// Existing local files always win. Per-file failures (including objects that
// were never synced) are logged and skipped; restore is best-effort.
func (p *Publisher) RestoreFromObjectStore(ctx context.Context, downloader Downloader) {
	for _, game := range domain.AllGames {
		stem := game.FileStem()
		files := []struct {
			name string
			key  string
		}{
			{stem + ".json", "draws/" + stem + ".json"},
			{stem + "-stats.json", "stats/" + stem + "-stats.json"},
		}

		for _, f := range files {
			if _, err := os.Stat(filepath.Join(p.dataDir, f.name)); err == nil {
				continue
			}

			data, err := downloader.Download(ctx, f.key)
			if err != nil {
				p.log.Debug().Err(err).Str("key", f.key).Msg("No published file to restore")
				continue
			}

			if err := p.writeAtomic(f.name, data); err != nil {
				p.log.Warn().Err(err).Str("key", f.key).Msg("Failed to restore published file")
				continue
			}

			p.log.Info().Str("key", f.key).Msg("Restored published file from object store")
		}
	}
}

// writeAtomic writes a file under the data directory via temp file + rename.
func (p *Publisher) writeAtomic(name string, data []byte) error {
	if err := os.MkdirAll(p.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	target := filepath.Join(p.dataDir, name)

	// Skip the write entirely when nothing changed, preserving mtimes
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}

	return nil
}
