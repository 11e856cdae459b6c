package chat

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Client with a token-bucket limiter so that bursts of
// node executions cannot exceed the provider's request budget.
type RateLimited struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimited creates a rate-limited client allowing rps requests per
// second with the given burst.
func NewRateLimited(inner Client, rps float64, burst int) *RateLimited {
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// SendMessage blocks until the limiter admits the request, then delegates.
func (c *RateLimited) SendMessage(ctx context.Context, req *Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.SendMessage(ctx, req)
}
