package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// ErrExhaustedCandidatePool is returned when the bounded demote-and-retry
// search cannot find a combination that never occurred historically. With
// realistic inputs (rangeSize choose 5 vastly exceeds the number of draws)
// this only happens on pathological fixtures.
var ErrExhaustedCandidatePool = errors.New("optimizer exhausted candidate pool")

// OptimizeByPosition derives a 6-number combination (5 regular + 1 special)
// by taking the most frequent number at each position, then resolving
// collisions via bounded demote-and-retry:
//
//   - if two positions pick the same number, the colliding position with the
//     weakest frequency margin (smallest gap to its next candidate) is
//     demoted to that next candidate
//   - if the 5-number set equals a historical regular-number set, the
//     weakest-margin position overall is demoted
//
// Margin ties demote the higher position index first, for determinism. The
// special ball is always the highest-frequency special number; it carries no
// uniqueness constraint. Regular numbers are returned in position order.
func OptimizeByPosition(positional PositionalFrequencyTable, specialFreq FrequencyTable, history domain.HistoryIndex) ([]int, error) {
	special, err := topNumber(specialFreq)
	if err != nil {
		return nil, fmt.Errorf("by position: %w", err)
	}

	rangeSize := 0
	for p := 0; p < domain.RegularNumbersPerDraw; p++ {
		if len(positional[p]) == 0 {
			return nil, fmt.Errorf("by position: empty table at position %d: %w", p, ErrExhaustedCandidatePool)
		}
		if len(positional[p]) > rangeSize {
			rangeSize = len(positional[p])
		}
	}

	// One demotion per attempt; duplicate resolution consumes attempts too,
	// so the bound is per-position rather than the bare range size.
	maxAttempts := rangeSize * domain.RegularNumbersPerDraw

	var indices [domain.RegularNumbersPerDraw]int
	picks := make([]int, domain.RegularNumbersPerDraw)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		for p := range picks {
			picks[p] = positional[p][indices[p]].Number
		}

		if dupPositions := duplicatePositions(picks); len(dupPositions) > 0 {
			target := weakestPosition(positional, indices, dupPositions)
			if target < 0 {
				return nil, fmt.Errorf("by position: cannot resolve duplicate picks: %w", ErrExhaustedCandidatePool)
			}
			indices[target]++
			continue
		}

		if history.Contains(domain.MakeNumberSet(picks)) {
			all := []int{0, 1, 2, 3, 4}
			target := weakestPosition(positional, indices, all)
			if target < 0 {
				return nil, fmt.Errorf("by position: %w", ErrExhaustedCandidatePool)
			}
			indices[target]++
			continue
		}

		return append(picks, special), nil
	}

	return nil, fmt.Errorf("by position: no unique combination in %d attempts: %w", maxAttempts, ErrExhaustedCandidatePool)
}

// OptimizeByGeneralFrequency derives a 6-number combination from the 5 most
// frequent numbers in the aggregate table (ties already broken by ascending
// number). If the set collides with history, the numeric-value-smallest of
// the 5 is demoted to the next-ranked candidate not already selected, and the
// check repeats, bounded by the table size. Regular numbers are returned in
// ascending order.
func OptimizeByGeneralFrequency(aggregate FrequencyTable, specialFreq FrequencyTable, history domain.HistoryIndex) ([]int, error) {
	special, err := topNumber(specialFreq)
	if err != nil {
		return nil, fmt.Errorf("by general frequency: %w", err)
	}

	if len(aggregate) < domain.RegularNumbersPerDraw {
		return nil, fmt.Errorf("by general frequency: range size %d too small: %w", len(aggregate), ErrExhaustedCandidatePool)
	}

	selected := make([]int, domain.RegularNumbersPerDraw)
	for i := range selected {
		selected[i] = aggregate[i].Number
	}

	// Candidates are consumed in ranking order and never revisited, so
	// selected numbers stay pairwise distinct by construction.
	cursor := domain.RegularNumbersPerDraw

	for attempt := 0; attempt < len(aggregate); attempt++ {
		if !history.Contains(domain.MakeNumberSet(selected)) {
			sort.Ints(selected)
			return append(selected, special), nil
		}

		if cursor >= len(aggregate) {
			return nil, fmt.Errorf("by general frequency: %w", ErrExhaustedCandidatePool)
		}

		smallest := 0
		for i, n := range selected {
			if n < selected[smallest] {
				smallest = i
			}
		}
		selected[smallest] = aggregate[cursor].Number
		cursor++
	}

	return nil, fmt.Errorf("by general frequency: %w", ErrExhaustedCandidatePool)
}

// topNumber returns the highest-frequency number in an ordered table
func topNumber(table FrequencyTable) (int, error) {
	if len(table) == 0 {
		return 0, fmt.Errorf("empty frequency table: %w", ErrExhaustedCandidatePool)
	}
	return table[0].Number, nil
}

// duplicatePositions returns every position whose pick collides with another
// position's pick, in ascending order. Empty when all picks are distinct.
func duplicatePositions(picks []int) []int {
	occurrences := make(map[int]int, len(picks))
	for _, n := range picks {
		occurrences[n]++
	}

	var positions []int
	for p, n := range picks {
		if occurrences[n] > 1 {
			positions = append(positions, p)
		}
	}
	return positions
}

// weakestPosition picks, among the given positions, the demotable one with
// the smallest frequency margin (gap between its current and next candidate).
// Positions already at their last candidate cannot be demoted. Ties go to the
// higher position index. Returns -1 if no position can be demoted.
func weakestPosition(positional PositionalFrequencyTable, indices [domain.RegularNumbersPerDraw]int, positions []int) int {
	best := -1
	bestMargin := math.MaxInt

	for _, p := range positions {
		idx := indices[p]
		if idx+1 >= len(positional[p]) {
			continue
		}
		margin := positional[p][idx].Count - positional[p][idx+1].Count
		if margin <= bestMargin {
			best = p
			bestMargin = margin
		}
	}

	return best
}
