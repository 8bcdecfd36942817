package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/weftlabs/mcpcore/protocol"
)

// KeyFunc derives a rate limit bucket key from a request. Returning the
// same key for all requests yields a global limit.
type KeyFunc func(ctx context.Context, req *protocol.Request) string

// RateLimitOption configures the rate limiter.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	keyFunc KeyFunc
	logger  Logger
}

// WithRateLimitKeyFunc sets the bucket key function, enabling per-client
// or per-method limits.
func WithRateLimitKeyFunc(fn KeyFunc) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.keyFunc = fn
	}
}

// WithRateLimitLogger sets the logger for rejected requests.
func WithRateLimitLogger(l Logger) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.logger = l
	}
}

// RateLimit returns middleware that limits request rate with a token
// bucket of the given rate per second and burst size. Rejected requests
// fail with a rate-limited protocol error.
func RateLimit(rate int, burst int, opts ...RateLimitOption) Middleware {
	cfg := &rateLimitConfig{
		keyFunc: func(context.Context, *protocol.Request) string { return "global" },
	}
	for _, opt := range opts {
		opt(cfg)
	}

	limiter := ratelimit.New(&ratelimit.Config{
		Rate:     rate,
		Burst:    burst,
		Interval: time.Second,
	})

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			key := cfg.keyFunc(ctx, req)
			if !limiter.Allow(ctx, key) {
				if cfg.logger != nil {
					cfg.logger.Warn("rate limit exceeded",
						F("method", req.Method),
						F("key", key),
					)
				}
				return nil, protocol.NewRateLimited("rate limit exceeded")
			}
			return next(ctx, req)
		}
	}
}

// RateLimitByMethod applies a separate bucket per protocol method.
func RateLimitByMethod(rate int, burst int, opts ...RateLimitOption) Middleware {
	allOpts := append([]RateLimitOption{
		WithRateLimitKeyFunc(func(_ context.Context, req *protocol.Request) string {
			return req.Method
		}),
	}, opts...)
	return RateLimit(rate, burst, allOpts...)
}

// RateLimitBySubscriber applies a separate bucket per connection, keyed by
// the subscriber ID the transport attached to the context.
func RateLimitBySubscriber(rate int, burst int, opts ...RateLimitOption) Middleware {
	allOpts := append([]RateLimitOption{
		WithRateLimitKeyFunc(func(ctx context.Context, _ *protocol.Request) string {
			return protocol.SubscriberFromContext(ctx)
		}),
	}, opts...)
	return RateLimit(rate, burst, allOpts...)
}
