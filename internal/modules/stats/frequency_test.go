package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawlytics/drawlytics/internal/domain"
)

func fixtureDraws() domain.DrawCollection {
	return domain.DrawCollection{
		{Date: "2024-01-15", Numbers: []int{7, 14, 21, 28, 35}, SpecialBall: 12, Type: domain.GamePowerball},
		{Date: "2024-01-08", Numbers: []int{7, 2, 21, 40, 60}, SpecialBall: 12, Type: domain.GamePowerball},
		{Date: "2024-01-01", Numbers: []int{1, 2, 3, 4, 5}, SpecialBall: 6, Type: domain.GamePowerball},
	}
}

func TestAnalyze_Counts(t *testing.T) {
	frequency, positional, special := Analyze(domain.GamePowerball, fixtureDraws())

	assert.Equal(t, 2, frequency.Count(7))
	assert.Equal(t, 2, frequency.Count(2))
	assert.Equal(t, 2, frequency.Count(21))
	assert.Equal(t, 1, frequency.Count(35))
	assert.Equal(t, 0, frequency.Count(69))

	// Position 0 saw 7 twice and 1 once
	assert.Equal(t, 2, positional[0].Count(7))
	assert.Equal(t, 1, positional[0].Count(1))
	assert.Equal(t, 0, positional[0].Count(2))

	// Position 5 is the special ball
	assert.Equal(t, 2, positional[SpecialBallPosition].Count(12))
	assert.Equal(t, 1, positional[SpecialBallPosition].Count(6))

	assert.Equal(t, 2, special.Count(12))
	assert.Equal(t, 1, special.Count(6))
}

func TestAnalyze_FrequencyConservation(t *testing.T) {
	draws := fixtureDraws()
	frequency, positional, special := Analyze(domain.GamePowerball, draws)

	assert.Equal(t, len(draws)*domain.RegularNumbersPerDraw, frequency.Total())
	assert.Equal(t, len(draws), special.Total())
	for p := 0; p < NumPositions; p++ {
		assert.Equal(t, len(draws), positional[p].Total(), "position %d", p)
	}
}

func TestAnalyze_PositionalDecomposition(t *testing.T) {
	frequency, positional, _ := Analyze(domain.GamePowerball, fixtureDraws())

	for _, e := range frequency {
		sum := 0
		for p := 0; p < domain.RegularNumbersPerDraw; p++ {
			sum += positional[p].Count(e.Number)
		}
		assert.Equal(t, e.Count, sum, "number %d", e.Number)
	}
}

func TestAnalyze_RangesNeverSparse(t *testing.T) {
	frequency, positional, special := Analyze(domain.GamePowerball, nil)

	maxRegular, maxSpecial := domain.GamePowerball.Ranges()
	assert.Len(t, frequency, maxRegular)
	assert.Len(t, special, maxSpecial)
	for p := 0; p < domain.RegularNumbersPerDraw; p++ {
		assert.Len(t, positional[p], maxRegular)
	}
	assert.Len(t, positional[SpecialBallPosition], maxSpecial)

	assert.Equal(t, 0, frequency.Total())
}

func TestAnalyze_OrderIndependent(t *testing.T) {
	draws := fixtureDraws()
	reversed := make(domain.DrawCollection, len(draws))
	for i, d := range draws {
		reversed[len(draws)-1-i] = d
	}

	a, _, _ := Analyze(domain.GamePowerball, draws)
	b, _, _ := Analyze(domain.GamePowerball, reversed)
	assert.Equal(t, a, b)
}

func TestFrequencyTable_Ordering(t *testing.T) {
	frequency, _, _ := Analyze(domain.GamePowerball, fixtureDraws())

	for i := 1; i < len(frequency); i++ {
		prev, cur := frequency[i-1], frequency[i]
		assert.LessOrEqual(t, cur.Count, prev.Count, "counts must be non-increasing")
		if cur.Count == prev.Count {
			assert.Greater(t, cur.Number, prev.Number, "ties must be ascending by number")
		}
	}
}

func TestFrequencyTable_JSONContract(t *testing.T) {
	table := BuildFrequencyTable(map[int]int{1: 5, 2: 3, 3: 3}, 4)

	encoded, err := json.Marshal(table)
	require.NoError(t, err)

	// String numeric keys, written in table order (count desc, number asc)
	assert.Equal(t, `{"1":5,"2":3,"3":3,"4":0}`, string(encoded))

	var decoded FrequencyTable
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, table, decoded)
}
