package telguarder

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig bounds the facade's retry loop. Only network errors and
// rate-limited remote errors are retried; everything else propagates on the
// first attempt.
type RetryConfig struct {
	// MaxAttempts includes the initial attempt. Values below 1 disable retries.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry; it doubles per
	// attempt up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Jitter randomizes each delay by +/- the given fraction (0..1).
	Jitter float64

	// RespectRetryAfter uses the Retry-After duration from rate-limited
	// responses instead of the computed backoff, capped by MaxRetryAfter.
	RespectRetryAfter bool
	MaxRetryAfter     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    250 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		Jitter:            0.2,
		RespectRetryAfter: true,
		MaxRetryAfter:     30 * time.Second,
	}
}

// backoffFor computes the delay before retrying after the given attempt
// (1-based, counting the attempt that just failed).
func (c RetryConfig) backoffFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.InitialBackoff
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	max := c.MaxBackoff
	if max <= 0 {
		max = 5 * time.Second
	}

	d := base
	for i := 1; i < attempt; i++ {
		if d >= max/2 {
			d = max
			break
		}
		d *= 2
	}
	if d > max {
		d = max
	}

	j := c.Jitter
	if j <= 0 {
		return d
	}
	if j > 1 {
		j = 1
	}
	f := 1 + (rand.Float64()*2-1)*j
	if f < 0 {
		f = 0
	}
	return time.Duration(float64(d) * f)
}

// retryDelay picks the wait before the next attempt, honoring Retry-After
// when the failed attempt was rate-limited.
func (c RetryConfig) retryDelay(attempt int, err error) time.Duration {
	wait := c.backoffFor(attempt)
	if !c.RespectRetryAfter {
		return wait
	}
	if te, ok := AsError(err); ok && te.Code == CodeRateLimited && te.RetryAfter > 0 {
		wait = te.RetryAfter
		if c.MaxRetryAfter > 0 && wait > c.MaxRetryAfter {
			wait = c.MaxRetryAfter
		}
	}
	return wait
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// parseRetryAfter reads the Retry-After header as either delta-seconds or an
// HTTP date.
func parseRetryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
