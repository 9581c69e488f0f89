// Package telguarder is a client for the telguarder caller-ID and phone-number
// reputation service.
//
// A lookup normalizes the input to E.164, sends it to the service and decodes
// the verdict into a LookupResult. Failures are classified: invalid input,
// network trouble, a service-reported error, or a malformed payload. The
// client retries network errors and rate-limited responses with exponential
// backoff; everything else surfaces immediately.
//
// Typical usage:
//
//	client, err := telguarder.New(
//	    telguarder.WithAPIKey(os.Getenv("TELGUARDER_API_KEY")),
//	    telguarder.WithTimeout(5*time.Second),
//	)
//	if err != nil {
//	    // handle
//	}
//	result, err := client.Lookup(ctx, "+4748841651")
//
// Optional layers are wired through options: a Redis-backed result cache
// (WithCache), a client-side rate limiter (WithRateLimit), Prometheus
// collectors (WithMetrics) and OpenTelemetry tracing (WithTracerProvider).
package telguarder
