package retry

import (
	"strings"
	"time"
)

const (
	streamingMaxAttempts   = 3
	streamingInitialDelay  = 500 * time.Millisecond
	streamingMultiplier    = 2.0
	toolMaxAttempts        = 3
	toolInitialDelay       = 250 * time.Millisecond
	toolMultiplier         = 2.0
	emptyOutputFragment    = "model returned empty output"
	emptyResponseFragment  = "received empty response"
	nilDereferenceFragment = "nil pointer dereference"
	toolInternalFragment   = "tool internal error"
)

// IsTransientStreaming reports whether a streaming failure is one of the
// known transient shapes: a blank reconciled model output or an empty
// streaming response from the provider.
func IsTransientStreaming(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, emptyOutputFragment) ||
		strings.Contains(message, emptyResponseFragment)
}

// IsTransientTool reports whether a tool dispatch failure originates from the
// tool layer's own internals rather than from the tool's declared behavior.
func IsTransientTool(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, nilDereferenceFragment) ||
		strings.Contains(message, toolInternalFragment)
}

// Streaming returns the preset configuration for the model invocation stage.
func Streaming(maxAttempts int, onRetry func(int, int, error, time.Duration)) Config {
	if maxAttempts < 1 {
		maxAttempts = streamingMaxAttempts
	}
	return Config{
		MaxAttempts:       maxAttempts,
		InitialDelay:      streamingInitialDelay,
		BackoffMultiplier: streamingMultiplier,
		RetryCondition:    IsTransientStreaming,
		OnRetry:           onRetry,
	}
}

// Tool returns the preset configuration for variable-resolution dispatches.
func Tool(maxAttempts int, onRetry func(int, int, error, time.Duration)) Config {
	if maxAttempts < 1 {
		maxAttempts = toolMaxAttempts
	}
	return Config{
		MaxAttempts:       maxAttempts,
		InitialDelay:      toolInitialDelay,
		BackoffMultiplier: toolMultiplier,
		RetryCondition:    IsTransientTool,
		OnRetry:           onRetry,
	}
}
