package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollUntil_SucceedsWhenLockFreesWithinWait(t *testing.T) {
	calls := 0
	ok, err := pollUntil(context.Background(), time.Second, time.Millisecond, func() (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, calls)
}

func TestPollUntil_GivesUpAfterWait(t *testing.T) {
	start := time.Now()
	ok, err := pollUntil(context.Background(), 30*time.Millisecond, 5*time.Millisecond, func() (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPollUntil_ZeroWaitTriesOnce(t *testing.T) {
	calls := 0
	ok, err := pollUntil(context.Background(), 0, time.Millisecond, func() (bool, error) {
		calls++
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestPollUntil_StopsOnError(t *testing.T) {
	boom := errors.New("redis down")
	calls := 0
	_, err := pollUntil(context.Background(), time.Second, time.Millisecond, func() (bool, error) {
		calls++
		if calls == 2 {
			return false, boom
		}
		return false, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestPollUntil_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pollUntil(ctx, time.Second, 10*time.Millisecond, func() (bool, error) {
		return false, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
