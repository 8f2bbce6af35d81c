package stats

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// Engine turns a draw collection into a statistics artifact. It is stateless;
// independent instances for different games may run in parallel because they
// share nothing.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a new statistics engine
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("component", "stats_engine").Logger(),
	}
}

// ComputeStats computes the full statistics artifact for one game.
//
// The collection is defensively re-validated: an invalid draw aborts the
// computation for this game (wrapping domain.ErrInvalidDraw) rather than
// silently dropping data. An empty collection is not an error - tables are
// all-zero, residuals 0, and the optimizers return the raw top picks.
//
// Optimizer exhaustion is surfaced as a non-nil error wrapping
// ErrExhaustedCandidatePool alongside a non-nil artifact: the frequency and
// significance results are still valid and should still be published; the
// failed optimized sequences are left empty.
func (e *Engine) ComputeStats(game domain.GameType, draws domain.DrawCollection) (*StatsArtifact, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("compute stats: %w: %q", domain.ErrUnknownGame, game)
	}
	if err := draws.Validate(); err != nil {
		return nil, fmt.Errorf("compute stats for %s: %w", game, err)
	}

	maxRegular, maxSpecial := game.Ranges()
	totalDraws := len(draws)

	frequency, positional, specialFrequency := Analyze(game, draws)

	artifact := &StatsArtifact{
		Type:                        game,
		TotalDraws:                  totalDraws,
		Frequency:                   frequency,
		FrequencyAtPosition:         positional,
		SpecialBallFrequency:        specialFrequency,
		RegularNumbers:              Significance(frequency, totalDraws, domain.RegularNumbersPerDraw, maxRegular),
		SpecialBallNumbers:          Significance(specialFrequency, totalDraws, 1, maxSpecial),
		OptimizedByPosition:         []int{},
		OptimizedByGeneralFrequency: []int{},
	}

	// Exactly one number occupies each position per draw
	for p := 0; p < domain.RegularNumbersPerDraw; p++ {
		artifact.ByPosition[p] = Significance(positional[p], totalDraws, 1, maxRegular)
	}

	artifact.Uniformity = UniformityReport{
		Regular:     tableUniformity(frequency, float64(totalDraws)*domain.RegularNumbersPerDraw/float64(maxRegular)),
		SpecialBall: tableUniformity(specialFrequency, float64(totalDraws)/float64(maxSpecial)),
	}

	history := draws.KeySet()
	var optimizeErr error

	if picks, err := OptimizeByPosition(positional, specialFrequency, history); err != nil {
		e.log.Error().Err(err).Str("game", string(game)).Msg("By-position optimization failed")
		optimizeErr = errors.Join(optimizeErr, err)
	} else {
		artifact.OptimizedByPosition = picks
	}

	if picks, err := OptimizeByGeneralFrequency(frequency, specialFrequency, history); err != nil {
		e.log.Error().Err(err).Str("game", string(game)).Msg("By-general-frequency optimization failed")
		optimizeErr = errors.Join(optimizeErr, err)
	} else {
		artifact.OptimizedByGeneralFrequency = picks
	}

	e.log.Debug().
		Str("game", string(game)).
		Int("total_draws", totalDraws).
		Msg("Statistics computed")

	return artifact, optimizeErr
}
