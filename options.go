package telguarder

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/telguarder/go-telguarder/cache"
)

// Option configures a Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithBaseURL points the client at a different service endpoint, e.g. a
// staging environment or a test server.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *Client) { c.rawBaseURL = u })
}

// WithAPIKey sets the credential sent in the X-Api-Key header.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) { c.apiKey = key })
}

// WithHTTPClient replaces the underlying *http.Client. The caller keeps
// ownership of its transport and connection pool.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	})
}

// WithTimeout bounds each attempt. The retry loop applies it per attempt, not
// to the whole lookup.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) { c.timeout = d })
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *Client) { c.userAgent = ua })
}

// WithRetryConfig replaces the retry policy.
func WithRetryConfig(cfg RetryConfig) Option {
	return optionFunc(func(c *Client) { c.retry = cfg })
}

// WithMaxAttempts adjusts only the attempt cap of the retry policy.
func WithMaxAttempts(n int) Option {
	return optionFunc(func(c *Client) { c.retry.MaxAttempts = n })
}

// WithLogger installs a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithCache enables the read-through lookup cache. A non-positive ttl falls
// back to cache.DefaultTTL.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return optionFunc(func(c *Client) {
		c.cache = store
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	})
}

// WithRateLimit caps outbound request rate across all lookups on this client.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return optionFunc(func(c *Client) {
		if requestsPerSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		}
	})
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return optionFunc(func(c *Client) { c.metrics = m })
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for the
// per-lookup span. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	})
}
