package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignificance_UniformNull(t *testing.T) {
	// 690 draws, 5 slots each, range 69: expected 50 per number
	counts := make(map[int]int, 69)
	for n := 1; n <= 69; n++ {
		counts[n] = 50
	}
	table := BuildFrequencyTable(counts, 69)

	result := Significance(table, 690, 5, 69)

	require.Len(t, result, 69)
	for n, entry := range result {
		assert.Equal(t, 50, entry.Observed, "number %d", n)
		assert.InDelta(t, 50.0, entry.Expected, 1e-9)
		assert.InDelta(t, 0.0, entry.Residual, 1e-9)
		assert.False(t, entry.Significant)
	}
}

func TestSignificance_HotNumberFlagged(t *testing.T) {
	// 1000 draws, number 1 appears 800 times at position 0 (one slot per draw)
	counts := map[int]int{1: 800}
	remaining := 200
	for n := 2; n <= 69 && remaining > 0; n++ {
		counts[n] = remaining / (69 - n + 1)
		remaining -= counts[n]
	}
	table := BuildFrequencyTable(counts, 69)

	result := Significance(table, 1000, 1, 69)

	entry := result[1]
	expected := 1000.0 / 69.0
	sd := math.Sqrt(expected * (1 - 1.0/69.0))

	assert.InDelta(t, expected, entry.Expected, 1e-9)
	assert.InDelta(t, (800-expected)/sd, entry.Residual, 1e-9)
	assert.Greater(t, entry.Residual, 2.0)
	assert.True(t, entry.Significant)
}

func TestSignificance_ColdNumberFlagged(t *testing.T) {
	// A number that never appears in a large sample has a large negative residual
	counts := make(map[int]int, 26)
	for n := 2; n <= 26; n++ {
		counts[n] = 40
	}
	table := BuildFrequencyTable(counts, 26)

	result := Significance(table, 1000, 1, 26)

	entry := result[1]
	assert.Equal(t, 0, entry.Observed)
	assert.Less(t, entry.Residual, -2.0)
	assert.True(t, entry.Significant)
}

func TestSignificance_DegenerateZeroDraws(t *testing.T) {
	table := BuildFrequencyTable(nil, 69)

	result := Significance(table, 0, 5, 69)

	require.Len(t, result, 69)
	for n, entry := range result {
		assert.Equal(t, 0, entry.Observed, "number %d", n)
		assert.Equal(t, 0.0, entry.Expected)
		assert.Equal(t, 0.0, entry.Residual)
		assert.False(t, entry.Significant)
	}
}

func TestSignificance_ThresholdIsExclusive(t *testing.T) {
	// A residual of exactly 2.0 is not significant: the contract is |r| > 2.0
	expected := 100.0 * 1.0 / 10.0
	sd := math.Sqrt(expected * (1 - 1.0/10.0))
	observed := int(math.Round(expected + 2.0*sd))

	counts := map[int]int{1: observed}
	table := BuildFrequencyTable(counts, 10)
	result := Significance(table, 100, 1, 10)

	entry := result[1]
	if math.Abs(entry.Residual) <= 2.0 {
		assert.False(t, entry.Significant)
	} else {
		assert.True(t, entry.Significant)
	}
}
