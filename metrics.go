package telguarder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client's Prometheus collectors. All methods are nil-safe
// so an unconfigured client pays nothing.
type Metrics struct {
	lookups     *prometheus.CounterVec
	duration    prometheus.Histogram
	retries     prometheus.Counter
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// Lookup outcome label values.
const (
	outcomeSuccess      = "success"
	outcomeInvalidInput = "invalid_input"
	outcomeNetworkError = "network_error"
	outcomeRemoteError  = "remote_error"
	outcomeDecodeError  = "decode_error"
	outcomeCacheHit     = "cache_hit"
)

// NewMetrics builds the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telguarder",
			Name:      "lookups_total",
			Help:      "Number of lookups by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "telguarder",
			Name:      "lookup_duration_seconds",
			Help:      "Wall time per lookup including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telguarder",
			Name:      "retries_total",
			Help:      "Number of retried lookup attempts.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telguarder",
			Name:      "cache_hits_total",
			Help:      "Lookups served from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telguarder",
			Name:      "cache_misses_total",
			Help:      "Lookups that went to the network after a cache miss.",
		}),
	}
	reg.MustRegister(m.lookups, m.duration, m.retries, m.cacheHits, m.cacheMisses)
	return m
}

func (m *Metrics) observeLookup(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) incRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) incCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) incCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func outcomeOf(err error) string {
	switch KindOf(err) {
	case KindInvalidInput:
		return outcomeInvalidInput
	case KindNetwork:
		return outcomeNetworkError
	case KindRemote:
		return outcomeRemoteError
	case KindDecode:
		return outcomeDecodeError
	}
	if err == nil {
		return outcomeSuccess
	}
	return outcomeNetworkError
}
