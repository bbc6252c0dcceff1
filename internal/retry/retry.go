// Package retry wraps operations with bounded retry, exponential backoff, and
// pluggable retryability classification.
package retry

import "time"

const defaultInitialDelay = 500 * time.Millisecond

// Config controls a single retried operation.
type Config struct {
	// MaxAttempts is the total number of attempts including the first one.
	// Values below 1 are treated as 1.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt. Values at or below
	// zero fall back to a positive default so retry waits are never zero.
	InitialDelay time.Duration
	// BackoffMultiplier, when above zero, multiplies the delay after every
	// retried attempt.
	BackoffMultiplier float64
	// RetryCondition classifies an error as retryable. A nil condition
	// retries every error until the attempts are exhausted.
	RetryCondition func(error) bool
	// OnRetry is invoked before each sleep with the failed attempt number,
	// the attempt budget, the error, and the upcoming delay.
	OnRetry func(attempt int, maxAttempts int, err error, nextDelay time.Duration)
}

// Do runs the operation until it succeeds, its error is classified
// non-retryable, or the attempt budget is exhausted. The last error is
// returned unmodified.
func Do[T any](config Config, operation func() (T, error)) (T, error) {
	var zero T
	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delay := config.InitialDelay
	if delay <= 0 {
		delay = defaultInitialDelay
	}
	for attempt := 1; ; attempt++ {
		result, operationErr := operation()
		if operationErr == nil {
			return result, nil
		}
		if config.RetryCondition != nil && !config.RetryCondition(operationErr) {
			return zero, operationErr
		}
		if attempt == maxAttempts {
			return zero, operationErr
		}
		if config.OnRetry != nil {
			config.OnRetry(attempt, maxAttempts, operationErr, delay)
		}
		time.Sleep(delay)
		if config.BackoffMultiplier > 0 {
			delay = time.Duration(float64(delay) * config.BackoffMultiplier)
		}
	}
}
