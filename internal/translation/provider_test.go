package translation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls atomic.Int32
	err   error
}

func (p *countingProvider) Translate(_ context.Context, word string) (string, error) {
	p.calls.Add(1)
	if p.err != nil {
		return "", p.err
	}
	return "tr:" + word, nil
}

func TestEchoProvider(t *testing.T) {
	t.Parallel()

	got, err := EchoProvider{}.Translate(context.Background(), " apple ")
	require.NoError(t, err)
	assert.Equal(t, "apple", got)

	_, err = EchoProvider{}.Translate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestCachedProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("caches by normalized word", func(t *testing.T) {
		next := &countingProvider{}
		p := NewCachedProvider(next, time.Minute, nil)

		first, err := p.Translate(ctx, "House")
		require.NoError(t, err)
		second, err := p.Translate(ctx, " house ")
		require.NoError(t, err)

		assert.Equal(t, "tr:house", first)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), next.calls.Load())
		assert.Equal(t, 1, p.Len())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		upstream := errors.New("quota exceeded")
		next := &countingProvider{err: upstream}
		p := NewCachedProvider(next, time.Minute, nil)

		_, err := p.Translate(ctx, "tree")
		assert.ErrorIs(t, err, upstream)
		_, err = p.Translate(ctx, "tree")
		assert.ErrorIs(t, err, upstream)
		assert.Equal(t, int32(2), next.calls.Load())
		assert.Equal(t, 0, p.Len())
	})

	t.Run("entries expire", func(t *testing.T) {
		next := &countingProvider{}
		p := NewCachedProvider(next, 20*time.Millisecond, nil)

		_, err := p.Translate(ctx, "river")
		require.NoError(t, err)
		time.Sleep(40 * time.Millisecond)
		_, err = p.Translate(ctx, "river")
		require.NoError(t, err)
		assert.Equal(t, int32(2), next.calls.Load())
	})

	t.Run("blank word", func(t *testing.T) {
		next := &countingProvider{}
		p := NewCachedProvider(next, 0, nil)

		_, err := p.Translate(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyWord)
		assert.Equal(t, int32(0), next.calls.Load())
	})
}
