package telguarder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/telguarder/go-telguarder/cache"
)

const (
	// DefaultBaseURL is the production endpoint of the reputation service.
	DefaultBaseURL = "https://api.telguarder.com"

	lookupPath = "/lookup/number"

	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "go-telguarder/" + Version

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 1 << 20

	tracerName = "github.com/telguarder/go-telguarder"
)

// Version of the client library.
const Version = "1.0.0"

// Client looks up phone-number reputation against the telguarder service.
// It is safe for concurrent use; the HTTP connection pool, the rate limiter
// and the optional cache are the only shared state.
type Client struct {
	httpClient *http.Client
	rawBaseURL string
	baseURL    *url.URL
	apiKey     string
	userAgent  string

	// timeout applies per attempt, not per lookup.
	timeout time.Duration
	retry   RetryConfig

	limiter  *rate.Limiter
	cache    cache.Cache
	cacheTTL time.Duration

	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// New constructs a Client with defaults suitable for production use.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		rawBaseURL: DefaultBaseURL,
		userAgent:  defaultUserAgent,
		timeout:    defaultTimeout,
		retry:      DefaultRetryConfig(),
		cacheTTL:   cache.DefaultTTL,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		if o != nil {
			o.apply(c)
		}
	}

	u, err := url.Parse(strings.TrimSpace(c.rawBaseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", c.rawBaseURL)
	}
	c.baseURL = u

	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: DefaultTransport()}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c, nil
}

// Lookup queries the reputation of a single phone number. The raw input is
// normalized to E.164 first; invalid input fails without network traffic.
func (c *Client) Lookup(ctx context.Context, number string) (*LookupResult, error) {
	start := time.Now()

	phone, err := NewPhoneNumber(number)
	if err != nil {
		c.metrics.observeLookup(outcomeInvalidInput, time.Since(start))
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "telguarder.Lookup")
	defer span.End()

	if result, ok := c.cachedResult(ctx, phone); ok {
		c.metrics.observeLookup(outcomeCacheHit, time.Since(start))
		span.SetAttributes(
			attribute.Bool("telguarder.cache_hit", true),
			attribute.String("telguarder.classification", string(result.Classification)),
		)
		return result, nil
	}

	results, err := c.doLookup(ctx, []PhoneNumber{phone})
	if err != nil {
		c.metrics.observeLookup(outcomeOf(err), time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(results.Results) == 0 {
		err := NewDecodeError("service returned no result for requested number")
		c.metrics.observeLookup(outcomeDecodeError, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := results.Results[0]
	c.storeResult(ctx, phone, result)
	c.metrics.observeLookup(outcomeSuccess, time.Since(start))
	span.SetAttributes(attribute.String("telguarder.classification", string(result.Classification)))
	return &result, nil
}

// LookupMany queries a batch of numbers in one request. The batch bypasses
// the cache; the first invalid number fails the whole batch locally.
func (c *Client) LookupMany(ctx context.Context, numbers []string) (*LookupResults, error) {
	start := time.Now()

	phones, err := normalizeNumbers(numbers)
	if err != nil {
		c.metrics.observeLookup(outcomeInvalidInput, time.Since(start))
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "telguarder.LookupMany")
	defer span.End()
	span.SetAttributes(attribute.Int("telguarder.batch_size", len(phones)))

	results, err := c.doLookup(ctx, phones)
	if err != nil {
		c.metrics.observeLookup(outcomeOf(err), time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	c.metrics.observeLookup(outcomeSuccess, time.Since(start))
	return results, nil
}

// doLookup runs the retry loop. Only network errors and rate-limited remote
// errors are retried; the caller's context ends the loop at any point.
func (c *Client) doLookup(ctx context.Context, numbers []PhoneNumber) (*LookupResults, error) {
	maxAttempts := c.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		// Fresh request per attempt: new body reader, new request id.
		req, err := c.newLookupRequest(ctx, numbers)
		if err != nil {
			return nil, err
		}

		results, err := c.attempt(req, numbers)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if attempt == maxAttempts || !IsRetryable(err) {
			break
		}

		wait := c.retry.retryDelay(attempt, err)
		c.metrics.incRetry()
		c.logger.Debug("retrying lookup",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))
		if err := sleepContext(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// attempt performs one network exchange with the per-attempt timeout applied.
func (c *Client) attempt(req *http.Request, numbers []PhoneNumber) (*LookupResults, error) {
	ctx := req.Context()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
		req = req.Clone(ctx)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewNetworkError(CodeIOFailure, "reading response body").WithCause(err)
	}

	if resp.StatusCode >= 400 {
		return nil, remoteError(resp, body, time.Now())
	}
	return parseLookupResponse(body, numbers, time.Now())
}

// cachedResult serves a lookup from the cache when one is configured. Cache
// failures are logged and treated as misses, never surfaced to the caller.
func (c *Client) cachedResult(ctx context.Context, phone PhoneNumber) (*LookupResult, bool) {
	if c.cache == nil {
		return nil, false
	}
	var result LookupResult
	err := c.cache.GetJSON(ctx, cache.LookupKey(phone.E164()), &result)
	if err == nil {
		c.metrics.incCacheHit()
		return &result, true
	}
	c.metrics.incCacheMiss()
	var notFound cache.ErrKeyNotFound
	if !errors.As(err, &notFound) {
		c.logger.Warn("lookup cache read failed", zap.Error(err))
	}
	return nil, false
}

func (c *Client) storeResult(ctx context.Context, phone PhoneNumber, result LookupResult) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SetJSON(ctx, cache.LookupKey(phone.E164()), result, c.cacheTTL); err != nil {
		c.logger.Warn("lookup cache write failed", zap.Error(err))
	}
}

// classifyTransportError maps transport failures to the network error
// taxonomy. Caller-driven cancellation propagates unwrapped so it is
// distinguishable from service trouble.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewNetworkError(CodeTimeout, "request timed out").WithCause(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewNetworkError(CodeTimeout, "request timed out").WithCause(err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return NewNetworkError(CodeConnectionRefused, "connection refused").WithCause(err)
	}
	return NewNetworkError(CodeIOFailure, "request failed").WithCause(err)
}

// CloseIdleConnections releases idle connections held by the client's pool.
// It does not close a cache passed in via WithCache; the cache stays owned by
// the caller.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
