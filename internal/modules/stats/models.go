// Package stats implements the statistics and optimization engine: frequency
// analysis, standardized-residual significance, optimized combinations and
// artifact validation. Everything in this package is a pure transformation
// over an immutable draw collection; there is no I/O and no shared state.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// NumPositions covers positions 0-4 (regular numbers) plus position 5
// (the special ball).
const NumPositions = domain.RegularNumbersPerDraw + 1

// SpecialBallPosition is the positional-table index of the special ball
const SpecialBallPosition = domain.RegularNumbersPerDraw

// FrequencyEntry is one number's occurrence count
type FrequencyEntry struct {
	Number int
	Count  int
}

// FrequencyTable maps every number in the applicable range to its occurrence
// count. It is always materialized sorted by count descending, ties broken by
// ascending number, so iteration order is deterministic. Numbers that never
// occurred are present with count 0 - ranges are never sparse.
type FrequencyTable []FrequencyEntry

// BuildFrequencyTable materializes a dense, ordered table over [1, rangeSize]
// from raw counts.
func BuildFrequencyTable(counts map[int]int, rangeSize int) FrequencyTable {
	table := make(FrequencyTable, 0, rangeSize)
	for n := 1; n <= rangeSize; n++ {
		table = append(table, FrequencyEntry{Number: n, Count: counts[n]})
	}
	sortFrequencyTable(table)
	return table
}

func sortFrequencyTable(table FrequencyTable) {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Number < table[j].Number
	})
}

// Count returns the occurrence count for a number (0 if absent)
func (t FrequencyTable) Count(number int) int {
	for _, e := range t {
		if e.Number == number {
			return e.Count
		}
	}
	return 0
}

// Total returns the sum of all counts in the table
func (t FrequencyTable) Total() int {
	total := 0
	for _, e := range t {
		total += e.Count
	}
	return total
}

// MarshalJSON serializes the table as an object with string numeric keys,
// written in table order (count descending). Numeric keys as strings is the
// serialization contract consumed downstream; the logical type is integer.
func (t FrequencyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(e.Number))
		buf.WriteString(`":`)
		buf.WriteString(strconv.Itoa(e.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the string-keyed object form and re-sorts
func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	table := make(FrequencyTable, 0, len(raw))
	for key, count := range raw {
		number, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("frequency table key %q is not a number: %w", key, err)
		}
		table = append(table, FrequencyEntry{Number: number, Count: count})
	}
	sortFrequencyTable(table)

	*t = table
	return nil
}

// PositionalFrequencyTable holds one FrequencyTable per draw position:
// indices 0-4 are the regular-number positions, index 5 is the special ball.
type PositionalFrequencyTable [NumPositions]FrequencyTable

// MarshalJSON serializes positions as string keys "0" through "5"
func (p PositionalFrequencyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, table := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`":`)
		encoded, err := table.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the string-keyed object form
func (p *PositionalFrequencyTable) UnmarshalJSON(data []byte) error {
	var raw map[string]FrequencyTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, table := range raw {
		position, err := strconv.Atoi(key)
		if err != nil || position < 0 || position >= NumPositions {
			return fmt.Errorf("positional frequency key %q is not a valid position", key)
		}
		p[position] = table
	}
	return nil
}

// SignificanceEntry summarizes one number against the uniform-draw null model
type SignificanceEntry struct {
	Observed    int     `json:"observed"`
	Expected    float64 `json:"expected"`
	Residual    float64 `json:"residual"`
	Significant bool    `json:"significant"`
}

// SignificanceTable maps numbers to their significance entries.
// JSON form uses string numeric keys in ascending numeric order.
type SignificanceTable map[int]SignificanceEntry

// MarshalJSON serializes entries with string numeric keys, ascending, so the
// encoded artifact is byte-identical across runs.
func (t SignificanceTable) MarshalJSON() ([]byte, error) {
	numbers := make([]int, 0, len(t))
	for n := range t {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range numbers {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(n))
		buf.WriteString(`":`)
		encoded, err := json.Marshal(t[n])
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the string-keyed object form
func (t *SignificanceTable) UnmarshalJSON(data []byte) error {
	var raw map[string]SignificanceEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	table := make(SignificanceTable, len(raw))
	for key, entry := range raw {
		number, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("significance table key %q is not a number: %w", key, err)
		}
		table[number] = entry
	}

	*t = table
	return nil
}

// ByPositionTable holds one SignificanceTable per regular-number position (0-4)
type ByPositionTable [domain.RegularNumbersPerDraw]SignificanceTable

// MarshalJSON serializes positions as string keys "0" through "4"
func (b ByPositionTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, table := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`":`)
		encoded, err := table.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the string-keyed object form
func (b *ByPositionTable) UnmarshalJSON(data []byte) error {
	var raw map[string]SignificanceTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, table := range raw {
		position, err := strconv.Atoi(key)
		if err != nil || position < 0 || position >= domain.RegularNumbersPerDraw {
			return fmt.Errorf("by-position key %q is not a valid position", key)
		}
		b[position] = table
	}
	return nil
}

// StatsArtifact is the published statistics result for one game. It is
// derived, disposable and fully recomputed from the draw collection on every
// run; it is never mutated in place, only replaced.
type StatsArtifact struct {
	Type                        domain.GameType          `json:"type"`
	TotalDraws                  int                      `json:"totalDraws"`
	Frequency                   FrequencyTable           `json:"frequency"`
	FrequencyAtPosition         PositionalFrequencyTable `json:"frequencyAtPosition"`
	SpecialBallFrequency        FrequencyTable           `json:"specialBallFrequency"`
	RegularNumbers              SignificanceTable        `json:"regularNumbers"`
	SpecialBallNumbers          SignificanceTable        `json:"specialBallNumbers"`
	ByPosition                  ByPositionTable          `json:"byPosition"`
	OptimizedByPosition         []int                    `json:"optimizedByPosition"`
	OptimizedByGeneralFrequency []int                    `json:"optimizedByGeneralFrequency"`
	Uniformity                  UniformityReport         `json:"uniformity"`
}
