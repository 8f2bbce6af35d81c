package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/drawlytics/drawlytics/internal/domain"
	"github.com/drawlytics/drawlytics/internal/events"
	"github.com/drawlytics/drawlytics/internal/modules/stats"
	"github.com/drawlytics/drawlytics/internal/utils"
)

// ErrUpdateInProgress is returned when an update run is triggered while a
// previous run is still executing.
var ErrUpdateInProgress = errors.New("update already in progress")

// firstArchiveYear is the earliest year with archive pages per game, used
// when no history is persisted yet.
var firstArchiveYear = map[domain.GameType]int{
	domain.GamePowerball:    1992,
	domain.GameMegaMillions: 1996,
}

// DrawScraper fetches one year of draws for a game.
type DrawScraper interface {
	FetchYear(ctx context.Context, game domain.GameType, year int) ([]domain.Draw, error)
}

// DrawMerger merges scraped draws into the persisted history.
type DrawMerger interface {
	Merge(ctx context.Context, game domain.GameType, scraped domain.DrawCollection) (domain.DrawCollection, int, error)
	LatestDate(ctx context.Context, game domain.GameType) (string, error)
}

// Snapshotter caches a game's merged history.
type Snapshotter interface {
	Save(game domain.GameType, drawList domain.DrawCollection) error
}

// StatsComputer derives a statistics artifact from a draw history.
type StatsComputer interface {
	ComputeStats(game domain.GameType, drawList domain.DrawCollection) (*stats.StatsArtifact, error)
}

// ArtifactPublisher publishes a validated artifact.
type ArtifactPublisher interface {
	Publish(ctx context.Context, game domain.GameType, artifact *stats.StatsArtifact, drawList domain.DrawCollection) error
}

// UpdateJob runs the full pipeline for every game: scrape the years since
// the last persisted draw, merge into history, snapshot, compute statistics,
// validate, publish. Games are processed concurrently and independently; one
// game's failure does not abort the other.
type UpdateJob struct {
	scraper   DrawScraper
	draws     DrawMerger
	snapshots Snapshotter
	engine    StatsComputer
	publisher ArtifactPublisher
	hub       *events.Hub
	log       zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewUpdateJob creates the update pipeline job.
func NewUpdateJob(
	scraper DrawScraper,
	draws DrawMerger,
	snapshots Snapshotter,
	engine StatsComputer,
	publisher ArtifactPublisher,
	hub *events.Hub,
	log zerolog.Logger,
) *UpdateJob {
	return &UpdateJob{
		scraper:   scraper,
		draws:     draws,
		snapshots: snapshots,
		engine:    engine,
		publisher: publisher,
		hub:       hub,
		log:       log.With().Str("job", "update").Logger(),
	}
}

// Name implements Job.
func (j *UpdateJob) Name() string {
	return "update"
}

// Running reports whether an update run is currently executing.
func (j *UpdateJob) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// Run implements Job. Only one run executes at a time; overlapping triggers
// get ErrUpdateInProgress.
func (j *UpdateJob) Run(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return ErrUpdateInProgress
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	runID := uuid.NewString()
	j.hub.Publish(events.NewEvent(events.UpdateStarted, runID, "", nil))

	// Plain group, not WithContext: a failing game must not cancel the other
	var g errgroup.Group
	for _, game := range domain.AllGames {
		game := game
		g.Go(func() error {
			if err := j.updateGame(ctx, runID, game); err != nil {
				j.log.Error().Err(err).Str("game", string(game)).Str("run_id", runID).Msg("Game update failed")
				return fmt.Errorf("%s: %w", game, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		j.hub.Publish(events.NewEvent(events.UpdateFailed, runID, "", map[string]interface{}{
			"error": err.Error(),
		}))
		return err
	}

	j.hub.Publish(events.NewEvent(events.UpdateCompleted, runID, "", nil))
	return nil
}

// updateGame runs the pipeline for one game.
func (j *UpdateJob) updateGame(ctx context.Context, runID string, game domain.GameType) error {
	log := j.log.With().Str("game", string(game)).Str("run_id", runID).Logger()
	defer utils.OperationTimer("update_"+string(game), log)()

	scraped, err := j.scrapeSinceLatest(ctx, game)
	if err != nil {
		return err
	}

	j.hub.Publish(events.NewEvent(events.GameScraped, runID, string(game), map[string]interface{}{
		"scraped": len(scraped),
	}))

	merged, added, err := j.draws.Merge(ctx, game, scraped)
	if err != nil {
		return err
	}
	log.Info().Int("scraped", len(scraped)).Int("new", added).Int("total", len(merged)).Msg("History merged")

	if err := j.snapshots.Save(game, merged); err != nil {
		// Snapshot is a cache; losing it degrades startup, not correctness
		log.Warn().Err(err).Msg("Failed to save draw snapshot")
	}

	artifact, err := j.engine.ComputeStats(game, merged)
	if artifact == nil {
		return err
	}
	if err != nil {
		// Optimizer exhaustion: frequency and significance tables are still
		// valid and worth publishing
		log.Warn().Err(err).Msg("Optimizers exhausted, publishing partial artifact")
	}

	if violations := stats.Validate(artifact); len(violations) > 0 {
		for _, v := range violations {
			log.Error().
				Str("kind", string(v.Kind)).
				Str("detail", v.Detail).
				Msg("Artifact consistency violation")
		}
		j.hub.Publish(events.NewEvent(events.ValidationFailed, runID, string(game), map[string]interface{}{
			"violations": len(violations),
		}))
		return &stats.ValidationError{Game: game, Violations: violations}
	}

	if err := j.publisher.Publish(ctx, game, artifact, merged); err != nil {
		return err
	}

	j.hub.Publish(events.NewEvent(events.StatsPublished, runID, string(game), map[string]interface{}{
		"total_draws": artifact.TotalDraws,
	}))

	return nil
}

// scrapeSinceLatest fetches every archive year from the year of the latest
// persisted draw (re-scraped to pick up late corrections) through the
// current year. An empty history starts at the game's first archive year.
func (j *UpdateJob) scrapeSinceLatest(ctx context.Context, game domain.GameType) (domain.DrawCollection, error) {
	latest, err := j.draws.LatestDate(ctx, game)
	if err != nil {
		return nil, err
	}

	startYear := firstArchiveYear[game]
	if latest != "" {
		if parsed, err := time.Parse(domain.DateLayout, latest); err == nil {
			startYear = parsed.Year()
		}
	}

	currentYear := time.Now().Year()

	var scraped domain.DrawCollection
	for year := startYear; year <= currentYear; year++ {
		yearDraws, err := j.scraper.FetchYear(ctx, game, year)
		if err != nil {
			return nil, fmt.Errorf("scrape %s year %d: %w", game, year, err)
		}
		scraped = append(scraped, yearDraws...)
	}

	return scraped, nil
}
