package screening

import (
	"context"
	"time"

	"github.com/screenline/screening-ai-platform/pkg/logging"
)

// RetryLLMClient wraps an oracle client with a per-attempt timeout and a
// small retry budget. Oracle calls would otherwise block a turn for as long
// as the upstream cares to take.
type RetryLLMClient struct {
	inner       LLMClient
	maxAttempts int
	timeout     time.Duration
	logger      *logging.Logger
}

// NewRetryLLMClient creates a retrying oracle client. maxAttempts below 1 is
// treated as 1; a zero timeout disables the per-attempt deadline.
func NewRetryLLMClient(inner LLMClient, maxAttempts int, timeout time.Duration, logger *logging.Logger) *RetryLLMClient {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RetryLLMClient{
		inner:       inner,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		logger:      logger,
	}
}

// Complete tries the wrapped client up to maxAttempts times. The last error
// is returned once the budget is exhausted; a canceled parent context stops
// retrying immediately.
func (c *RetryLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attemptCtx := ctx
		cancel := func() {}
		if c.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		resp, err := c.inner.Complete(attemptCtx, req)
		cancel()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return LLMResponse{}, ctx.Err()
		}
		if attempt < c.maxAttempts {
			c.logger.Warn("oracle call failed, retrying",
				"attempt", attempt,
				"max_attempts", c.maxAttempts,
				"error", err.Error(),
			)
		}
	}
	return LLMResponse{}, lastErr
}
