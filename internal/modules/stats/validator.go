package stats

import (
	"fmt"
	"strings"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// ViolationKind identifies one class of artifact invariant violation
type ViolationKind string

const (
	// ViolationFrequencyConservation - sum(frequency) != totalDraws * 5
	ViolationFrequencyConservation ViolationKind = "frequency_conservation"
	// ViolationSpecialBallConservation - sum(specialBallFrequency) != totalDraws
	ViolationSpecialBallConservation ViolationKind = "special_ball_conservation"
	// ViolationPositionConservation - sum(frequencyAtPosition[p]) != totalDraws
	ViolationPositionConservation ViolationKind = "position_conservation"
	// ViolationPositionalDecomposition - positional counts for a number do not sum to its aggregate count
	ViolationPositionalDecomposition ViolationKind = "positional_decomposition"
	// ViolationTableOrdering - a frequency table is not sorted count-descending with ascending-number ties
	ViolationTableOrdering ViolationKind = "table_ordering"
)

// Violation describes one failed invariant with enough structured detail
// (which check, which number or position) to be actionable.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Detail   string        `json:"detail"`
	Number   int           `json:"number,omitempty"`
	Position int           `json:"position,omitempty"`
}

// ValidationError carries every violation found in an artifact. An artifact
// with violations must not be published.
type ValidationError struct {
	Game       domain.GameType
	Violations []Violation
}

func (e *ValidationError) Error() string {
	details := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		details = append(details, v.Detail)
	}
	return fmt.Sprintf("stats artifact for %s failed validation (%d violations): %s",
		e.Game, len(e.Violations), strings.Join(details, "; "))
}

// Validate checks the internal consistency invariants of a fully assembled
// artifact and reports every violation found (empty result = valid). It is
// read-only and is always run before publication.
func Validate(artifact *StatsArtifact) []Violation {
	var violations []Violation

	expectedRegular := artifact.TotalDraws * domain.RegularNumbersPerDraw
	if total := artifact.Frequency.Total(); total != expectedRegular {
		violations = append(violations, Violation{
			Kind:   ViolationFrequencyConservation,
			Detail: fmt.Sprintf("frequency counts sum to %d, want %d", total, expectedRegular),
		})
	}

	if total := artifact.SpecialBallFrequency.Total(); total != artifact.TotalDraws {
		violations = append(violations, Violation{
			Kind:   ViolationSpecialBallConservation,
			Detail: fmt.Sprintf("special ball counts sum to %d, want %d", total, artifact.TotalDraws),
		})
	}

	for p := 0; p < NumPositions; p++ {
		if total := artifact.FrequencyAtPosition[p].Total(); total != artifact.TotalDraws {
			violations = append(violations, Violation{
				Kind:     ViolationPositionConservation,
				Detail:   fmt.Sprintf("position %d counts sum to %d, want %d", p, total, artifact.TotalDraws),
				Position: p,
			})
		}
	}

	// Positional decomposition: a number's per-position counts over the 5
	// regular positions must reassemble its aggregate count.
	for _, e := range artifact.Frequency {
		sum := 0
		for p := 0; p < domain.RegularNumbersPerDraw; p++ {
			sum += artifact.FrequencyAtPosition[p].Count(e.Number)
		}
		if sum != e.Count {
			violations = append(violations, Violation{
				Kind:   ViolationPositionalDecomposition,
				Detail: fmt.Sprintf("number %d positional counts sum to %d, aggregate is %d", e.Number, sum, e.Count),
				Number: e.Number,
			})
		}
	}

	violations = append(violations, orderingViolations("frequency", artifact.Frequency)...)
	violations = append(violations, orderingViolations("specialBallFrequency", artifact.SpecialBallFrequency)...)
	for p := 0; p < NumPositions; p++ {
		name := fmt.Sprintf("frequencyAtPosition[%d]", p)
		for _, v := range orderingViolations(name, artifact.FrequencyAtPosition[p]) {
			v.Position = p
			violations = append(violations, v)
		}
	}

	return violations
}

// orderingViolations reports the first out-of-order entry in a table, if any
func orderingViolations(name string, table FrequencyTable) []Violation {
	for i := 1; i < len(table); i++ {
		prev, cur := table[i-1], table[i]
		if cur.Count > prev.Count || (cur.Count == prev.Count && cur.Number < prev.Number) {
			return []Violation{{
				Kind:   ViolationTableOrdering,
				Detail: fmt.Sprintf("%s out of order at index %d: %d:%d after %d:%d", name, i, cur.Number, cur.Count, prev.Number, prev.Count),
				Number: cur.Number,
			}}
		}
	}
	return nil
}
