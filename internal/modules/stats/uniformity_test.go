package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableUniformity_PerfectlyUniform(t *testing.T) {
	counts := map[int]int{}
	for n := 1; n <= 10; n++ {
		counts[n] = 7
	}
	table := BuildFrequencyTable(counts, 10)

	result := tableUniformity(table, 7)

	assert.Equal(t, 0.0, result.ChiSquare)
	assert.Equal(t, 9, result.DegreesOfFreedom)
	assert.InDelta(t, 1.0, result.PValue, 1e-9)
	assert.True(t, result.Uniform)
	assert.Equal(t, 7.0, result.Counts.Mean)
	assert.Equal(t, 7.0, result.Counts.Min)
	assert.Equal(t, 7.0, result.Counts.Max)
}

func TestTableUniformity_HeavilySkewed(t *testing.T) {
	// All mass on a single number is as far from uniform as it gets
	counts := map[int]int{1: 100}
	table := BuildFrequencyTable(counts, 10)

	result := tableUniformity(table, 10)

	assert.Greater(t, result.ChiSquare, 100.0)
	assert.Less(t, result.PValue, uniformityAlpha)
	assert.False(t, result.Uniform)
	assert.Equal(t, 0.0, result.Counts.Min)
	assert.Equal(t, 100.0, result.Counts.Max)
}

func TestTableUniformity_ZeroDraws(t *testing.T) {
	table := BuildFrequencyTable(map[int]int{}, 10)

	result := tableUniformity(table, 0)

	assert.Equal(t, 0.0, result.ChiSquare)
	assert.Equal(t, 1.0, result.PValue)
	assert.True(t, result.Uniform)
}

func TestSummarizeCounts_Empty(t *testing.T) {
	assert.Equal(t, CountSummary{}, summarizeCounts(nil))
}
