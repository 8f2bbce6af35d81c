// Package draws provides persistence and merging for historical lottery
// drawings. One row per (game, date); regular numbers are stored in drawn
// (ranked) order.
package draws

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/database"
	"github.com/drawlytics/drawlytics/internal/domain"
	"github.com/drawlytics/drawlytics/internal/utils"
)

// Repository provides draw history persistence on the draws database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new draw repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "draws").Logger(),
	}
}

// Upsert stores a single draw, replacing any existing row for the same
// (game, date). Freshly scraped data wins over a stale persisted row.
func (r *Repository) Upsert(ctx context.Context, draw domain.Draw) error {
	if err := draw.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO draws (game, date, n1, n2, n3, n4, n5, special_ball)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game, date) DO UPDATE SET
			n1 = excluded.n1, n2 = excluded.n2, n3 = excluded.n3,
			n4 = excluded.n4, n5 = excluded.n5,
			special_ball = excluded.special_ball`,
		string(draw.Type), draw.Date,
		draw.Numbers[0], draw.Numbers[1], draw.Numbers[2], draw.Numbers[3], draw.Numbers[4],
		draw.SpecialBall,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert draw %s/%s: %w", draw.Type, draw.Date, err)
	}

	return nil
}

// UpsertMany stores a batch of draws in a single transaction and returns the
// number of dates that were not previously persisted.
func (r *Repository) UpsertMany(ctx context.Context, drawList domain.DrawCollection) (int, error) {
	inserted := 0
	done := utils.MeasureDBQuery("upsert_draws", r.log)

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		existsStmt, err := tx.PrepareContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM draws WHERE game = ? AND date = ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare existence check: %w", err)
		}
		defer existsStmt.Close()

		upsertStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO draws (game, date, n1, n2, n3, n4, n5, special_ball)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(game, date) DO UPDATE SET
				n1 = excluded.n1, n2 = excluded.n2, n3 = excluded.n3,
				n4 = excluded.n4, n5 = excluded.n5,
				special_ball = excluded.special_ball`)
		if err != nil {
			return fmt.Errorf("failed to prepare upsert: %w", err)
		}
		defer upsertStmt.Close()

		for _, draw := range drawList {
			if err := draw.Validate(); err != nil {
				return err
			}

			var exists bool
			if err := existsStmt.QueryRowContext(ctx, string(draw.Type), draw.Date).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check draw %s/%s: %w", draw.Type, draw.Date, err)
			}

			if _, err := upsertStmt.ExecContext(ctx,
				string(draw.Type), draw.Date,
				draw.Numbers[0], draw.Numbers[1], draw.Numbers[2], draw.Numbers[3], draw.Numbers[4],
				draw.SpecialBall,
			); err != nil {
				return fmt.Errorf("failed to upsert draw %s/%s: %w", draw.Type, draw.Date, err)
			}

			if !exists {
				inserted++
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	done(int64(len(drawList)))
	return inserted, nil
}

// ListByGame returns draws for a game ordered newest-first. A limit <= 0
// returns the full history.
func (r *Repository) ListByGame(ctx context.Context, game domain.GameType, limit int) (domain.DrawCollection, error) {
	query := `
		SELECT date, n1, n2, n3, n4, n5, special_ball
		FROM draws
		WHERE game = ?
		ORDER BY date DESC`
	args := []interface{}{string(game)}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws for %s: %w", game, err)
	}
	defer rows.Close()

	var result domain.DrawCollection
	for rows.Next() {
		draw := domain.Draw{
			Type:    game,
			Numbers: make([]int, domain.RegularNumbersPerDraw),
		}
		if err := rows.Scan(
			&draw.Date,
			&draw.Numbers[0], &draw.Numbers[1], &draw.Numbers[2], &draw.Numbers[3], &draw.Numbers[4],
			&draw.SpecialBall,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draw row: %w", err)
		}
		result = append(result, draw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draw rows: %w", err)
	}

	return result, nil
}

// LatestDate returns the most recent persisted draw date for a game, or the
// empty string when no draws are stored.
func (r *Repository) LatestDate(ctx context.Context, game domain.GameType) (string, error) {
	var date string
	err := r.db.QueryRowContext(ctx,
		"SELECT date FROM draws WHERE game = ? ORDER BY date DESC LIMIT 1",
		string(game),
	).Scan(&date)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest date for %s: %w", game, err)
	}

	return date, nil
}

// Count returns the number of persisted draws for a game.
func (r *Repository) Count(ctx context.Context, game domain.GameType) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM draws WHERE game = ?",
		string(game),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count draws for %s: %w", game, err)
	}

	return count, nil
}
