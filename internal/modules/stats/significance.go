package stats

import (
	"math"
)

// SignificanceThreshold is the standardized-residual magnitude above which a
// number is flagged significant (roughly 95% two-tailed under a normal
// approximation). Fixed, not configurable.
const SignificanceThreshold = 2.0

// Significance computes a SignificanceEntry for every number in the table.
//
// Null model: each of the rangeSize numbers is equally likely to fill any of
// the drawsPerRecord slots per draw, so expected = totalDraws *
// drawsPerRecord / rangeSize and, under a binomial approximation,
// sd = sqrt(expected * (1 - 1/rangeSize)).
//
// With zero draws sd is 0; the residual is then defined as 0 and the entry is
// not significant, so the degenerate case produces complete output instead of
// a division by zero.
func Significance(table FrequencyTable, totalDraws, drawsPerRecord, rangeSize int) SignificanceTable {
	expected := float64(totalDraws) * float64(drawsPerRecord) / float64(rangeSize)
	sd := math.Sqrt(expected * (1 - 1/float64(rangeSize)))

	result := make(SignificanceTable, len(table))
	for _, e := range table {
		entry := SignificanceEntry{
			Observed: e.Count,
			Expected: expected,
		}
		if sd > 0 {
			entry.Residual = (float64(e.Count) - expected) / sd
			entry.Significant = math.Abs(entry.Residual) > SignificanceThreshold
		}
		result[e.Number] = entry
	}

	return result
}
