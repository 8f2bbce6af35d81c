package draws

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawlytics/drawlytics/internal/database"
	"github.com/drawlytics/drawlytics/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "draws.db"),
		Profile: database.ProfileStandard,
		Name:    "draws",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), zerolog.Nop())
}

func pbDraw(date string, numbers []int, special int) domain.Draw {
	return domain.Draw{
		Date:        date,
		Numbers:     numbers,
		SpecialBall: special,
		Type:        domain.GamePowerball,
	}
}

func TestRepository_UpsertAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, pbDraw("2024-01-01", []int{5, 1, 9, 3, 7}, 12)))
	require.NoError(t, repo.Upsert(ctx, pbDraw("2024-01-08", []int{2, 4, 6, 8, 10}, 20)))

	drawList, err := repo.ListByGame(ctx, domain.GamePowerball, 0)
	require.NoError(t, err)
	require.Len(t, drawList, 2)

	// Newest first
	assert.Equal(t, "2024-01-08", drawList[0].Date)
	assert.Equal(t, "2024-01-01", drawList[1].Date)

	// Drawn order is preserved, not sorted
	assert.Equal(t, []int{5, 1, 9, 3, 7}, drawList[1].Numbers)
	assert.Equal(t, 12, drawList[1].SpecialBall)
	assert.Equal(t, domain.GamePowerball, drawList[1].Type)
}

func TestRepository_UpsertReplacesOnConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6)))
	require.NoError(t, repo.Upsert(ctx, pbDraw("2024-01-01", []int{10, 20, 30, 40, 50}, 7)))

	drawList, err := repo.ListByGame(ctx, domain.GamePowerball, 0)
	require.NoError(t, err)
	require.Len(t, drawList, 1)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, drawList[0].Numbers)
	assert.Equal(t, 7, drawList[0].SpecialBall)
}

func TestRepository_UpsertRejectsInvalidDraw(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Upsert(context.Background(), pbDraw("2024-01-01", []int{1, 2, 3, 4, 70}, 6))
	assert.ErrorIs(t, err, domain.ErrInvalidDraw)
}

func TestRepository_UpsertManyCountsNewDatesOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := domain.DrawCollection{
		pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6),
		pbDraw("2024-01-08", []int{2, 4, 6, 8, 10}, 20),
	}
	inserted, err := repo.UpsertMany(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Two existing dates plus one new date
	second := domain.DrawCollection{
		pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6),
		pbDraw("2024-01-08", []int{2, 4, 6, 8, 11}, 21),
		pbDraw("2024-01-15", []int{11, 22, 33, 44, 55}, 9),
	}
	inserted, err = repo.UpsertMany(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := repo.Count(ctx, domain.GamePowerball)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// The re-upserted row carries the fresh values
	drawList, err := repo.ListByGame(ctx, domain.GamePowerball, 0)
	require.NoError(t, err)
	assert.Equal(t, 21, drawList[1].SpecialBall)
}

func TestRepository_UpsertManyRollsBackOnInvalidDraw(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batch := domain.DrawCollection{
		pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6),
		pbDraw("2024-01-08", []int{1, 2, 3, 4, 70}, 6), // out of range
	}

	_, err := repo.UpsertMany(ctx, batch)
	require.ErrorIs(t, err, domain.ErrInvalidDraw)

	count, err := repo.Count(ctx, domain.GamePowerball)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "failed batch must not persist partial rows")
}

func TestRepository_ListByGameLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []string{"2024-01-01", "2024-01-08", "2024-01-15"}
	for i, date := range dates {
		require.NoError(t, repo.Upsert(ctx, pbDraw(date, []int{1 + i, 10, 20, 30, 40}, 5)))
	}

	drawList, err := repo.ListByGame(ctx, domain.GamePowerball, 2)
	require.NoError(t, err)
	require.Len(t, drawList, 2)
	assert.Equal(t, "2024-01-15", drawList[0].Date)
	assert.Equal(t, "2024-01-08", drawList[1].Date)
}

func TestRepository_GamesAreIsolated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6)))
	require.NoError(t, repo.Upsert(ctx, domain.Draw{
		Date:        "2024-01-01",
		Numbers:     []int{7, 8, 9, 10, 11},
		SpecialBall: 3,
		Type:        domain.GameMegaMillions,
	}))

	pb, err := repo.ListByGame(ctx, domain.GamePowerball, 0)
	require.NoError(t, err)
	mm, err := repo.ListByGame(ctx, domain.GameMegaMillions, 0)
	require.NoError(t, err)

	require.Len(t, pb, 1)
	require.Len(t, mm, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pb[0].Numbers)
	assert.Equal(t, []int{7, 8, 9, 10, 11}, mm[0].Numbers)
}

func TestRepository_LatestDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	latest, err := repo.LatestDate(ctx, domain.GamePowerball)
	require.NoError(t, err)
	assert.Equal(t, "", latest, "empty history yields empty latest date")

	require.NoError(t, repo.Upsert(ctx, pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6)))
	require.NoError(t, repo.Upsert(ctx, pbDraw("2024-03-04", []int{2, 4, 6, 8, 10}, 7)))

	latest, err = repo.LatestDate(ctx, domain.GamePowerball)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", latest)
}
