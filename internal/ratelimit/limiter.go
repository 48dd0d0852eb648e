package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyAdminWrite = "ratelimit:admin:%s"

// Limiter throttles admin writes per client. A nil Limiter allows everything.
type Limiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

// NewLimiter returns nil when redis is not configured or limits are disabled.
func NewLimiter(client *redis.Client, cfg config.Config) *Limiter {
	if client == nil || cfg.RateLimitRate <= 0 || cfg.RateLimitBurst <= 0 {
		return nil
	}
	return &Limiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.RateLimitRate,
		burst:  cfg.RateLimitBurst,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *Limiter) Allow(ctx context.Context, clientKey string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = "anonymous"
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyAdminWrite, clientKey), l.rate, l.burst)
}
