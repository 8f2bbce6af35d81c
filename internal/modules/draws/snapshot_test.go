package draws

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawlytics/drawlytics/internal/domain"
)

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	store := NewSnapshotStore(t.TempDir(), zerolog.Nop())

	drawList := domain.DrawCollection{
		pbDraw("2024-01-08", []int{2, 4, 6, 8, 10}, 20),
		pbDraw("2024-01-01", []int{5, 1, 9, 3, 7}, 12),
	}

	require.NoError(t, store.Save(domain.GamePowerball, drawList))

	snapshot, err := store.Load(domain.GamePowerball)
	require.NoError(t, err)

	assert.Equal(t, domain.GamePowerball, snapshot.Game)
	assert.False(t, snapshot.SavedAt.IsZero())
	require.Len(t, snapshot.Draws, 2)
	assert.Equal(t, drawList, snapshot.Draws)
	// Drawn order survives the round trip
	assert.Equal(t, []int{5, 1, 9, 3, 7}, snapshot.Draws[1].Numbers)
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	store := NewSnapshotStore(t.TempDir(), zerolog.Nop())

	require.NoError(t, store.Save(domain.GamePowerball, domain.DrawCollection{
		pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6),
	}))
	require.NoError(t, store.Save(domain.GamePowerball, domain.DrawCollection{
		pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6),
		pbDraw("2024-01-08", []int{2, 4, 6, 8, 10}, 20),
	}))

	snapshot, err := store.Load(domain.GamePowerball)
	require.NoError(t, err)
	assert.Len(t, snapshot.Draws, 2)
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store := NewSnapshotStore(t.TempDir(), zerolog.Nop())

	_, err := store.Load(domain.GameMegaMillions)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSnapshotStore_GamesUseSeparateFiles(t *testing.T) {
	store := NewSnapshotStore(t.TempDir(), zerolog.Nop())

	require.NoError(t, store.Save(domain.GamePowerball, domain.DrawCollection{
		pbDraw("2024-01-01", []int{1, 2, 3, 4, 5}, 6),
	}))

	_, err := store.Load(domain.GameMegaMillions)
	assert.ErrorIs(t, err, os.ErrNotExist)

	snapshot, err := store.Load(domain.GamePowerball)
	require.NoError(t, err)
	assert.Len(t, snapshot.Draws, 1)
}

func TestSnapshotStore_RejectsUnknownGame(t *testing.T) {
	store := NewSnapshotStore(t.TempDir(), zerolog.Nop())

	assert.ErrorIs(t, store.Save("euromillions", nil), domain.ErrUnknownGame)

	_, err := store.Load("euromillions")
	assert.ErrorIs(t, err, domain.ErrUnknownGame)
}
