package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter(t *testing.T) {
	t.Run("burst is served immediately then exhausted", func(t *testing.T) {
		limiter := NewTokenBucketLimiter("test", 60, 3)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow(), "request %d within burst", i+1)
		}
		assert.False(t, limiter.Allow(), "burst exhausted")
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		// 6000 req/min = 100 req/s, so a token returns within ~10ms.
		limiter := NewTokenBucketLimiter("test", 6000, 1)

		require.True(t, limiter.Allow())
		require.False(t, limiter.Allow())

		time.Sleep(20 * time.Millisecond)
		assert.True(t, limiter.Allow())
	})

	t.Run("wait honors context cancellation", func(t *testing.T) {
		limiter := NewTokenBucketLimiter("test", 1, 1)
		require.True(t, limiter.Allow())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx)
		assert.Error(t, err)
	})

	t.Run("non-positive burst gets a sane default", func(t *testing.T) {
		limiter := NewTokenBucketLimiter("test", 60, 0)
		assert.True(t, limiter.Allow(), "default burst must allow at least one request")
	})
}

func TestNoOpLimiter(t *testing.T) {
	limiter := NewNoOpLimiter()

	assert.True(t, limiter.Allow())
	assert.NoError(t, limiter.Wait(context.Background()))
}
