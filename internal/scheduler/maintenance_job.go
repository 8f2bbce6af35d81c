package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/database"
)

// vacuumFreelistThreshold is the number of free pages above which the
// maintenance run vacuums the database. Below it, incremental auto-vacuum
// keeps up on its own.
const vacuumFreelistThreshold = 1000

// MaintenanceJob keeps the draws database healthy between update runs: an
// integrity check, a WAL checkpoint so the log file does not grow unbounded,
// and a vacuum when enough pages have been freed.
type MaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates the database maintenance job.
func NewMaintenanceJob(db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "db-maintenance").Logger(),
	}
}

// Name implements Job.
func (j *MaintenanceJob) Name() string {
	return "db-maintenance"
}

// Run implements Job.
func (j *MaintenanceJob) Run(ctx context.Context) error {
	if err := j.db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("maintenance %s: %w", j.db.Name(), err)
	}

	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		return fmt.Errorf("maintenance %s: %w", j.db.Name(), err)
	}

	dbStats, err := j.db.GetStats()
	if err != nil {
		return fmt.Errorf("maintenance %s: %w", j.db.Name(), err)
	}

	if dbStats.FreelistCount > vacuumFreelistThreshold {
		j.log.Info().Int64("free_pages", dbStats.FreelistCount).Msg("Vacuuming database")
		if err := j.db.Vacuum(); err != nil {
			return fmt.Errorf("maintenance %s: %w", j.db.Name(), err)
		}
	}

	j.log.Info().
		Int64("size_bytes", dbStats.SizeBytes).
		Int64("wal_size_bytes", dbStats.WALSizeBytes).
		Int64("free_pages", dbStats.FreelistCount).
		Msg("Database maintenance completed")

	return nil
}
