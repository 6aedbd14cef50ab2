package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when a Params combination cannot produce a
// consistent schedule.
var ErrInvalidParams = errors.New("invalid scoring parameters")

// Params defines all configurable parameters of the scoring policy
type Params struct {
	// Score adjustments per action
	KnowBonus       float64
	DontKnowPenalty float64

	// Bounds
	ScoreFloor  float64
	RetireScore float64

	// Records below this score are eligible for sessions
	ActiveThreshold float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	KnowBonus       float64
	DontKnowPenalty float64
	ScoreFloor      float64
	RetireScore     float64
	ActiveThreshold float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		KnowBonus:       1.0,
		DontKnowPenalty: 1.5,
		ScoreFloor:      0.0,
		RetireScore:     10.0,
		// Scores between ActiveThreshold and RetireScore are neither scheduled
		// nor counted as learned.
		ActiveThreshold: 7.0,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.KnowBonus > 0 {
		params.KnowBonus = config.KnowBonus
	}
	if config.DontKnowPenalty > 0 {
		params.DontKnowPenalty = config.DontKnowPenalty
	}
	if config.ScoreFloor > 0 {
		params.ScoreFloor = config.ScoreFloor
	}
	if config.RetireScore > 0 {
		params.RetireScore = config.RetireScore
	}
	if config.ActiveThreshold > 0 {
		params.ActiveThreshold = config.ActiveThreshold
	}

	return params
}

// Validate checks the ordering floor < active threshold <= retire score and
// that both adjustments are positive.
func (p *Params) Validate() error {
	if p.KnowBonus <= 0 {
		return fmt.Errorf("%w: know bonus must be positive, got %v", ErrInvalidParams, p.KnowBonus)
	}
	if p.DontKnowPenalty <= 0 {
		return fmt.Errorf("%w: dont-know penalty must be positive, got %v", ErrInvalidParams, p.DontKnowPenalty)
	}
	if p.ScoreFloor < 0 {
		return fmt.Errorf("%w: score floor cannot be negative, got %v", ErrInvalidParams, p.ScoreFloor)
	}
	if p.ActiveThreshold <= p.ScoreFloor {
		return fmt.Errorf("%w: active threshold %v must be above score floor %v",
			ErrInvalidParams, p.ActiveThreshold, p.ScoreFloor)
	}
	if p.RetireScore < p.ActiveThreshold {
		return fmt.Errorf("%w: retire score %v must not be below active threshold %v",
			ErrInvalidParams, p.RetireScore, p.ActiveThreshold)
	}
	return nil
}

// IsActive reports whether a record with score should be scheduled.
func (p *Params) IsActive(score float64) bool {
	return score < p.ActiveThreshold
}

// IsLearned reports whether score counts as mastered.
func (p *Params) IsLearned(score float64) bool {
	return score >= p.RetireScore
}
