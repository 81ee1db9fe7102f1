package telemetry

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewTracedHTTPClient creates an HTTP client that propagates trace
// context to the ordering API via W3C TraceContext headers and records
// a client span per request.
//
// The returned client is safe for concurrent use and should be reused
// so the connection pool is shared. If telemetry was never initialized
// the instrumentation is a no-op.
func NewTracedHTTPClient(baseTransport http.RoundTripper) *http.Client {
	if baseTransport == nil {
		baseTransport = defaultPooledTransport()
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(baseTransport),
	}
}

// defaultPooledTransport returns a transport tuned for repeated calls
// to a single API host.
func defaultPooledTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}
