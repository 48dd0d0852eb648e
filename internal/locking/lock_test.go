package locking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLockerRunsWithoutLocking(t *testing.T) {
	var l *Locker
	called := false

	err := l.WithLock(context.Background(), "feeconfig:default:1", time.Second, time.Second, func(ctx context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestNilLockerRelease(t *testing.T) {
	var l *Locker
	assert.NoError(t, l.Release(context.Background(), "k", "t"))

	_, ok, err := l.TryLock(context.Background(), "k", time.Second)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewLockerWithoutClient(t *testing.T) {
	assert.Nil(t, NewLocker(nil))
}
