package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := JobBegin(context.Background(), "test", time.Minute)
	t.Cleanup(cancel)
	return SetInitialInterval(ctx, time.Millisecond)
}

func TestJobEndRetriesTransientErrors(t *testing.T) {
	ctx := fastCtx(t)

	var attempts []int
	err := JobEnd(ctx, func(ctx context.Context) error {
		attempts = append(attempts, GetRetryAttempt(ctx))
		if len(attempts) < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, attempts)
}

func TestJobEndStopsOnPermanentError(t *testing.T) {
	ctx := fastCtx(t)

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return errors.New("validation failed: missing profile")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "job test failed after 1 attempt(s)")
}

func TestJobEndGivesUpAfterMaxRetries(t *testing.T) {
	ctx := SetMaxRetries(fastCtx(t), 2)

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return errors.New("service unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls, "first attempt plus two retries")
}

func TestJobEndRecoversPanic(t *testing.T) {
	ctx := fastCtx(t)

	err := JobEnd(ctx, func(context.Context) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: boom")
}

func TestJobMetadata(t *testing.T) {
	ctx := fastCtx(t)
	meta := GetJobMetadata(ctx)

	assert.Equal(t, "test", meta.JobType)
	assert.NotEqual(t, [16]byte{}, [16]byte(meta.JobID))
	assert.Equal(t, DefaultMaxRetries, meta.MaxRetries)
	assert.False(t, meta.StartTime.IsZero())
}
