package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLimiterAllows(t *testing.T) {
	l := NewLimiter(nil, config.Config{RateLimitRate: 5, RateLimitBurst: 10})
	assert.Nil(t, l)
	assert.False(t, l.Enabled())

	res, err := l.Allow(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestNilTokenBucketErrors(t *testing.T) {
	var b *TokenBucket
	_, err := b.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}

func TestValidateBucket(t *testing.T) {
	assert.Error(t, validateBucket("", 1, 1))
	assert.Error(t, validateBucket("k", 0, 1))
	assert.Error(t, validateBucket("k", 1, 0))
	assert.NoError(t, validateBucket("k", 0.5, 3))
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryAfter(true, 0, 2))
	assert.Equal(t, 500*time.Millisecond, retryAfter(false, 0, 2))
	assert.Equal(t, 250*time.Millisecond, retryAfter(false, 0.5, 2))
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 10*time.Second, bucketTTL(2, 10))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
	assert.Equal(t, time.Second, bucketTTL(0, 1))
}

func TestScriptValueParsing(t *testing.T) {
	assert.Equal(t, int64(1), toInt(int64(1)))
	assert.Equal(t, int64(0), toInt(nil))
	assert.InDelta(t, 2.75, toFloat("2.75"), 1e-9)
	assert.InDelta(t, 3.0, toFloat(int64(3)), 1e-9)
}
