package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID in original context")

	ctxWithTrace := SetTraceID(ctx)

	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32, "Expected trace ID length to be 32 hex characters")
	_, err := hex.DecodeString(traceID)
	require.NoError(t, err, "Expected valid hex string")

	assert.Empty(t, GetTraceID(ctx), "Expected original context to remain unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestNewTraceID_Unique(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := NewTraceID()
		require.False(t, seen[id], "Duplicate trace ID generated: %s", id)
		seen[id] = true
	}
}

func TestSubject(t *testing.T) {
	_, ok := GetSubject(context.Background())
	assert.False(t, ok)

	_, ok = GetSubject(WithSubject(context.Background(), ""))
	assert.False(t, ok, "Empty subject should not count as authenticated")

	subject, ok := GetSubject(WithSubject(context.Background(), "learner"))
	assert.True(t, ok)
	assert.Equal(t, "learner", subject)
}
