package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type KeyContext string

var (
	keyJobID           KeyContext = "job_id"
	keyJobType         KeyContext = "job_type"
	keyRetryAttempt    KeyContext = "retry_attempt"
	keyJobStartTime    KeyContext = "job_start_time"
	keyMaxRetries      KeyContext = "max_retries"
	keyInitialInterval KeyContext = "initial_interval"
)

const (
	// DefaultTimeout bounds a whole job run including retries
	DefaultTimeout = 10 * time.Minute
	// DefaultMaxRetries is the number of retries after the first attempt
	DefaultMaxRetries = 3
)

// JobMetadata holds metadata for a job execution
type JobMetadata struct {
	JobID        uuid.UUID
	JobType      string
	RetryAttempt int
	MaxRetries   int
	StartTime    time.Time
}

// JobBegin initializes a job context with metadata and timeout.
// A zero timeout uses DefaultTimeout.
func JobBegin(parentCtx context.Context, jobType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// Create context with timeout to prevent infinite hanging
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyJobID, uuid.New())
	ctx = context.WithValue(ctx, keyJobType, jobType)
	ctx = context.WithValue(ctx, keyRetryAttempt, 0)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// JobEnd executes the job function with panic recovery and exponential backoff.
// Errors that IsRetryableError rejects, or that are wrapped with backoff.Permanent,
// end the job immediately.
func JobEnd(ctx context.Context, jobFunc func(context.Context) error) error {
	attempt := 0

	operation := func() (err error) {
		runCtx := SetRetryAttempt(ctx, attempt)
		attempt++

		defer func() {
			if p := recover(); p != nil {
				err = backoff.Permanent(fmt.Errorf("panic recovered: %v", p))
			}
		}()

		if ctx.Err() != nil {
			return backoff.Permanent(fmt.Errorf("context cancelled before job execution: %w", ctx.Err()))
		}

		err = jobFunc(runCtx)
		if err != nil && !IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = GetInitialInterval(ctx)
	bo.MaxInterval = 60 * time.Second
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(GetMaxRetries(ctx))), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("job %s failed after %d attempt(s): %w", jobTypeOrUnknown(ctx), attempt, err)
	}
	return nil
}

func jobTypeOrUnknown(ctx context.Context) string {
	if jobType, ok := GetJobType(ctx); ok {
		return jobType
	}
	return "unknown"
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (uuid.UUID, bool) {
	jobID, ok := ctx.Value(keyJobID).(uuid.UUID)
	return jobID, ok
}

// GetJobType extracts job type from context
func GetJobType(ctx context.Context) (string, bool) {
	jobType, ok := ctx.Value(keyJobType).(string)
	return jobType, ok
}

// GetRetryAttempt extracts current retry attempt from context
func GetRetryAttempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyRetryAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// SetRetryAttempt updates retry attempt in context
func SetRetryAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyRetryAttempt, attempt)
}

// GetMaxRetries extracts max retries from context
func GetMaxRetries(ctx context.Context) int {
	maxRetries, ok := ctx.Value(keyMaxRetries).(int)
	if !ok {
		return DefaultMaxRetries
	}
	return maxRetries
}

// SetMaxRetries updates max retries in context
func SetMaxRetries(ctx context.Context, maxRetries int) context.Context {
	return context.WithValue(ctx, keyMaxRetries, maxRetries)
}

// GetInitialInterval returns the first backoff delay, 5s unless overridden
func GetInitialInterval(ctx context.Context) time.Duration {
	d, ok := ctx.Value(keyInitialInterval).(time.Duration)
	if !ok {
		return 5 * time.Second
	}
	return d
}

// SetInitialInterval overrides the first backoff delay
func SetInitialInterval(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, keyInitialInterval, d)
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	jobType, _ := GetJobType(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		JobID:        jobID,
		JobType:      jobType,
		RetryAttempt: GetRetryAttempt(ctx),
		MaxRetries:   GetMaxRetries(ctx),
		StartTime:    startTime,
	}
}

// IsRetryableError checks if an error should trigger a retry
// Retryable errors include: network errors, deadlocks, rate limits, 5xx
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	for _, marker := range retryableMarkers {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

var retryableMarkers = []string{
	// network
	"connection refused",
	"connection reset",
	"network unreachable",
	"no such host",
	"i/o timeout",
	// postgres serialization_failure / deadlock_detected
	"deadlock",
	"40001",
	"40p01",
	// rate limiting
	"rate limit",
	"too many requests",
	"429",
	// upstream failures
	"status 5",
	"internal server error",
	"service unavailable",
	"bad gateway",
	"temporary failure",
	"try again",
}
