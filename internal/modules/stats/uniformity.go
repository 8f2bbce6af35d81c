package stats

import (
	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// uniformityAlpha is the p-value below which a table is reported non-uniform
const uniformityAlpha = 0.05

// CountSummary holds descriptive statistics over a table's counts
type CountSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// TableUniformity is a chi-square goodness-of-fit check of a frequency table
// against the uniform null model. Descriptive only: lottery numbers are
// independent uniform draws by construction, so a low p-value over real data
// indicates a data problem, not a predictive edge.
type TableUniformity struct {
	ChiSquare        float64      `json:"chiSquare"`
	DegreesOfFreedom int          `json:"degreesOfFreedom"`
	PValue           float64      `json:"pValue"`
	Uniform          bool         `json:"uniform"`
	Counts           CountSummary `json:"counts"`
}

// UniformityReport covers the aggregate regular-number table and the
// special-ball table.
type UniformityReport struct {
	Regular     TableUniformity `json:"regular"`
	SpecialBall TableUniformity `json:"specialBall"`
}

// tableUniformity computes the chi-square statistic over one table.
// expectedPerNumber is the uniform-null expectation for a single number
// (totalDraws * drawsPerRecord / rangeSize). With zero draws the statistic is
// 0 and the table is trivially uniform.
func tableUniformity(table FrequencyTable, expectedPerNumber float64) TableUniformity {
	counts := make([]float64, len(table))
	for i, e := range table {
		counts[i] = float64(e.Count)
	}

	result := TableUniformity{
		DegreesOfFreedom: len(table) - 1,
		PValue:           1,
		Uniform:          true,
		Counts:           summarizeCounts(counts),
	}

	if expectedPerNumber <= 0 || len(table) < 2 {
		return result
	}

	chiSquare := 0.0
	for _, c := range counts {
		diff := c - expectedPerNumber
		chiSquare += diff * diff / expectedPerNumber
	}

	dist := distuv.ChiSquared{K: float64(result.DegreesOfFreedom)}
	result.ChiSquare = chiSquare
	result.PValue = dist.Survival(chiSquare)
	result.Uniform = result.PValue >= uniformityAlpha

	return result
}

// summarizeCounts builds the descriptive summary; errors from the stats
// helpers only occur on empty input, which yields a zero summary.
func summarizeCounts(counts []float64) CountSummary {
	if len(counts) == 0 {
		return CountSummary{}
	}

	mean, _ := mstats.Mean(counts)
	median, _ := mstats.Median(counts)
	stdDev, _ := mstats.StandardDeviation(counts)
	min, _ := mstats.Min(counts)
	max, _ := mstats.Max(counts)

	return CountSummary{
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
	}
}
