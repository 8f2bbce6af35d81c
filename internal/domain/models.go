// Package domain contains the core lottery types shared across modules.
// The domain layer is pure: no database, HTTP or logging dependencies.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// RegularNumbersPerDraw is the number of ranked regular numbers in every draw.
const RegularNumbersPerDraw = 5

// DateLayout is the wire format for draw dates (the draw's identity key).
const DateLayout = "2006-01-02"

// ErrInvalidDraw marks a draw outside its declared numeric domain or with
// non-distinct regular numbers. Draws are filtered at the acquisition
// boundary; seeing this inside the engine is a fatal precondition failure.
var ErrInvalidDraw = errors.New("invalid draw")

// ErrUnknownGame marks an unrecognized game type.
var ErrUnknownGame = errors.New("unknown game type")

// GameType identifies a lottery game
type GameType string

const (
	// GamePowerball - 5 regular numbers from [1,69], special ball from [1,26]
	GamePowerball GameType = "powerball"
	// GameMegaMillions - 5 regular numbers from [1,70], special ball from [1,25]
	GameMegaMillions GameType = "mega-millions"
)

// AllGames lists every supported game, in processing order.
var AllGames = []GameType{GamePowerball, GameMegaMillions}

// ParseGameType converts a wire/URL string into a GameType
func ParseGameType(s string) (GameType, error) {
	switch GameType(s) {
	case GamePowerball:
		return GamePowerball, nil
	case GameMegaMillions:
		return GameMegaMillions, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
	}
}

// Valid reports whether the game type is one of the supported games
func (g GameType) Valid() bool {
	return g == GamePowerball || g == GameMegaMillions
}

// Ranges returns the numeric domain for the game: regular numbers are drawn
// without replacement from [1, maxRegular], the special ball independently
// from [1, maxSpecial].
func (g GameType) Ranges() (maxRegular, maxSpecial int) {
	switch g {
	case GamePowerball:
		return 69, 26
	case GameMegaMillions:
		return 70, 25
	default:
		return 0, 0
	}
}

// FileStem returns the short name used for this game's artifact files
// (pb.json / pb-stats.json, mm.json / mm-stats.json).
func (g GameType) FileStem() string {
	switch g {
	case GamePowerball:
		return "pb"
	case GameMegaMillions:
		return "mm"
	default:
		return string(g)
	}
}

// Draw is one historical drawing event. Numbers is ordered: the index is the
// draw position (0-4) and position-based statistics depend on it.
type Draw struct {
	Date        string   `json:"date" msgpack:"date"`
	Numbers     []int    `json:"numbers" msgpack:"numbers"`
	SpecialBall int      `json:"specialBall" msgpack:"specialBall"`
	Type        GameType `json:"type" msgpack:"type"`
}

// Validate checks the draw against its game's numeric domain.
// All failures wrap ErrInvalidDraw with enough detail to be actionable.
func (d Draw) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown game type %q", ErrInvalidDraw, d.Type)
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidDraw, d.Date)
	}

	maxRegular, maxSpecial := d.Type.Ranges()

	if len(d.Numbers) != RegularNumbersPerDraw {
		return fmt.Errorf("%w: draw %s has %d regular numbers, want %d",
			ErrInvalidDraw, d.Date, len(d.Numbers), RegularNumbersPerDraw)
	}

	seen := make(map[int]bool, RegularNumbersPerDraw)
	for i, n := range d.Numbers {
		if n < 1 || n > maxRegular {
			return fmt.Errorf("%w: draw %s number %d at position %d outside [1,%d]",
				ErrInvalidDraw, d.Date, n, i, maxRegular)
		}
		if seen[n] {
			return fmt.Errorf("%w: draw %s has duplicate regular number %d",
				ErrInvalidDraw, d.Date, n)
		}
		seen[n] = true
	}

	if d.SpecialBall < 1 || d.SpecialBall > maxSpecial {
		return fmt.Errorf("%w: draw %s special ball %d outside [1,%d]",
			ErrInvalidDraw, d.Date, d.SpecialBall, maxSpecial)
	}

	return nil
}

// NumberSet is the unordered identity of a draw's 5 regular numbers,
// normalized to ascending order. Used for "has this combination occurred"
// checks, where position does not matter.
type NumberSet [RegularNumbersPerDraw]int

// MakeNumberSet normalizes 5 regular numbers into a NumberSet
func MakeNumberSet(numbers []int) NumberSet {
	var set NumberSet
	copy(set[:], numbers)
	sort.Ints(set[:])
	return set
}

// HistoryIndex is the set of regular-number combinations that have occurred
type HistoryIndex map[NumberSet]struct{}

// Contains reports whether the combination has occurred historically
func (h HistoryIndex) Contains(set NumberSet) bool {
	_, ok := h[set]
	return ok
}

// DrawCollection is the validated, deduplicated, date-sorted (newest first)
// set of historical draws for one game. Immutable once handed to the engine.
type DrawCollection []Draw

// Normalize deduplicates by date (first occurrence wins, so callers put the
// freshest source first) and sorts by date descending. Dates are ISO-8601 so
// lexicographic order is chronological.
func (c DrawCollection) Normalize() DrawCollection {
	seen := make(map[string]bool, len(c))
	out := make(DrawCollection, 0, len(c))
	for _, d := range c {
		if seen[d.Date] {
			continue
		}
		seen[d.Date] = true
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})

	return out
}

// KeySet builds the historical regular-number-set index for the optimizer
func (c DrawCollection) KeySet() HistoryIndex {
	index := make(HistoryIndex, len(c))
	for _, d := range c {
		if len(d.Numbers) != RegularNumbersPerDraw {
			continue
		}
		index[MakeNumberSet(d.Numbers)] = struct{}{}
	}
	return index
}

// Validate checks every draw in the collection, failing on the first invalid
// draw. Used as the engine's defensive precondition check.
func (c DrawCollection) Validate() error {
	for _, d := range c {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}
