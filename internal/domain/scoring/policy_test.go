package scoring

import (
	"testing"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateScore(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		action   domain.FeedbackAction
		expected float64
	}{
		{name: "know from zero", current: 0, action: domain.ActionKnow, expected: 1},
		{name: "know accumulates", current: 6, action: domain.ActionKnow, expected: 7},
		{name: "know has no ceiling", current: 10, action: domain.ActionKnow, expected: 11},
		{name: "dont know subtracts penalty", current: 5, action: domain.ActionDontKnow, expected: 3.5},
		{name: "dont know clamps to floor", current: 1, action: domain.ActionDontKnow, expected: 0},
		{name: "dont know at floor stays at floor", current: 0, action: domain.ActionDontKnow, expected: 0},
		{name: "dont know exactly reaching floor", current: 1.5, action: domain.ActionDontKnow, expected: 0},
		{name: "remove from zero", current: 0, action: domain.ActionRemove, expected: 10},
		{name: "remove lowers a high score", current: 15, action: domain.ActionRemove, expected: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := calculateScore(tc.current, tc.action, params)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	t.Parallel()
	policy := NewDefaultPolicy()

	for _, action := range []domain.FeedbackAction{"", "skip", "KNOW"} {
		got, err := policy.Apply(4, action)
		assert.ErrorIs(t, err, domain.ErrInvalidAction)
		assert.Equal(t, 4.0, got)
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	t.Parallel()
	policy := NewDefaultPolicy()

	for _, action := range []domain.FeedbackAction{domain.ActionKnow, domain.ActionDontKnow, domain.ActionRemove} {
		first, err := policy.Apply(3.25, action)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := policy.Apply(3.25, action)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestApplyNeverBelowFloor(t *testing.T) {
	t.Parallel()
	policy, err := NewPolicyWithParams(NewParams(ParamsConfig{ScoreFloor: 2}))
	require.NoError(t, err)

	score := 5.0
	for i := 0; i < 10; i++ {
		score, err = policy.Apply(score, domain.ActionDontKnow)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 2.0)
	}
	assert.Equal(t, 2.0, score)
}

func TestApplyKnowAfterClampIsAdditive(t *testing.T) {
	t.Parallel()
	policy := NewDefaultPolicy()

	// 0.5 -> 0 (clamped) -> 1
	score, err := policy.Apply(0.5, domain.ActionDontKnow)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = policy.Apply(score, domain.ActionKnow)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestPolicyParamsIsCopy(t *testing.T) {
	t.Parallel()
	params := NewParams(ParamsConfig{KnowBonus: 2})
	policy, err := NewPolicyWithParams(params)
	require.NoError(t, err)

	params.KnowBonus = 100
	assert.Equal(t, 2.0, policy.Params().KnowBonus)

	got, err := policy.Apply(1, domain.ActionKnow)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestNewPolicyWithParamsRejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewPolicyWithParams(&Params{
		KnowBonus:       1,
		DontKnowPenalty: 1,
		ScoreFloor:      0,
		RetireScore:     5,
		ActiveThreshold: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidParams)

	policy, err := NewPolicyWithParams(nil)
	require.NoError(t, err)
	assert.Equal(t, *NewDefaultParams(), policy.Params())
}
