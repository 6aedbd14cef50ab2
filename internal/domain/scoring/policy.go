package scoring

import (
	"github.com/phrazzld/lingua-api/internal/domain"
)

// Policy defines the interface for mastery score calculation
type Policy interface {
	// Apply computes the score that results from action being taken on an
	// item whose current score is current. The result is never below the
	// score floor.
	Apply(current float64, action domain.FeedbackAction) (float64, error)

	// Params returns a copy of the parameters the policy uses.
	Params() Params
}

// defaultPolicy is the standard implementation of the Policy interface
type defaultPolicy struct {
	params *Params
}

// NewDefaultPolicy creates a new policy with default parameters
func NewDefaultPolicy() Policy {
	return &defaultPolicy{
		params: NewDefaultParams(),
	}
}

// NewPolicyWithParams creates a new policy with custom parameters.
// Returns ErrInvalidParams if params are inconsistent.
func NewPolicyWithParams(params *Params) (Policy, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := *params
	return &defaultPolicy{params: &p}, nil
}

// Apply implements the Policy interface
func (p *defaultPolicy) Apply(current float64, action domain.FeedbackAction) (float64, error) {
	return calculateScore(current, action, p.params)
}

// Params implements the Policy interface
func (p *defaultPolicy) Params() Params {
	return *p.params
}

// calculateScore is the pure scoring function.
func calculateScore(current float64, action domain.FeedbackAction, params *Params) (float64, error) {
	var next float64

	switch action {
	case domain.ActionKnow:
		next = current + params.KnowBonus
	case domain.ActionDontKnow:
		next = current - params.DontKnowPenalty
	case domain.ActionRemove:
		next = params.RetireScore
	default:
		return current, domain.ErrInvalidAction
	}

	if next < params.ScoreFloor {
		next = params.ScoreFloor
	}

	return next, nil
}
