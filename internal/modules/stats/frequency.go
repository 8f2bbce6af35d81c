package stats

import (
	"github.com/drawlytics/drawlytics/internal/domain"
)

// Analyze computes the three frequency views of a draw collection:
//   - the aggregate regular-number table (each draw contributes 5 counts)
//   - the per-position tables: positions 0-4 over the regular range,
//     position 5 over the special-ball range
//   - the special-ball table (each draw contributes 1 count)
//
// Every number in the applicable range is present, zero-count numbers
// included. Counts are independent of draw order, and the returned tables are
// deterministic pure functions of the input. Draws outside the declared range
// must have been rejected upstream; Analyze does not re-check.
func Analyze(game domain.GameType, draws domain.DrawCollection) (FrequencyTable, PositionalFrequencyTable, FrequencyTable) {
	maxRegular, maxSpecial := game.Ranges()

	aggregate := make(map[int]int, maxRegular)
	special := make(map[int]int, maxSpecial)
	var positional [NumPositions]map[int]int
	for p := 0; p < domain.RegularNumbersPerDraw; p++ {
		positional[p] = make(map[int]int, maxRegular)
	}
	positional[SpecialBallPosition] = make(map[int]int, maxSpecial)

	for _, draw := range draws {
		for p, n := range draw.Numbers {
			aggregate[n]++
			positional[p][n]++
		}
		special[draw.SpecialBall]++
		positional[SpecialBallPosition][draw.SpecialBall]++
	}

	var positionalTables PositionalFrequencyTable
	for p := 0; p < domain.RegularNumbersPerDraw; p++ {
		positionalTables[p] = BuildFrequencyTable(positional[p], maxRegular)
	}
	positionalTables[SpecialBallPosition] = BuildFrequencyTable(positional[SpecialBallPosition], maxSpecial)

	return BuildFrequencyTable(aggregate, maxRegular),
		positionalTables,
		BuildFrequencyTable(special, maxSpecial)
}
