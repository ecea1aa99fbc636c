package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID in original context")

	ctxWithTrace := SetTraceID(ctx)

	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32, "Expected trace ID length to be 32 hex characters (16 bytes)")
	assert.Empty(t, GetTraceID(ctx), "Expected original context to remain unchanged")
}

func TestGenerateTraceID(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		_, err := hex.DecodeString(id)
		assert.NoError(t, err, "Expected valid hex string")
		assert.False(t, seen[id], "Generated duplicate trace ID: %s", id)
		seen[id] = true
	}
}

func TestGenerateFallbackTraceID(t *testing.T) {
	id := generateFallbackTraceID()
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
}

func TestProfileID(t *testing.T) {
	_, ok := ProfileID(context.Background())
	assert.False(t, ok)

	_, ok = ProfileID(WithProfileID(context.Background(), ""))
	assert.False(t, ok, "an empty profile id does not count")

	id, ok := ProfileID(WithProfileID(context.Background(), "profile-1"))
	assert.True(t, ok)
	assert.Equal(t, "profile-1", id)
}
