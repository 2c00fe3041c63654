package client

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

var _ Doer = (*http.Client)(nil)

// Options configures a Client.
type Options struct {
	HTTPClient Doer
	// Header is added to every request.
	Header http.Header
	// Timeout applies to requests whose context has no deadline. Zero
	// disables it.
	Timeout time.Duration
	// MaxBodyBytes bounds the response body size.
	MaxBodyBytes int64
	// Tracer, when set, records a span per operation and per HTTP request
	// sent by the client.
	Tracer trace.Tracer
}

// Option configures Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		HTTPClient:   http.DefaultClient,
		Header:       http.Header{},
		Timeout:      30 * time.Second,
		MaxBodyBytes: 32 << 20,
	}
}

// WithHTTPClient sets the HTTP client used to send requests.
func WithHTTPClient(d Doer) Option {
	return func(o *Options) { o.HTTPClient = d }
}

// WithHeader adds a header sent with every request. Repeated calls for the
// same name add values.
func WithHeader(name, value string) Option {
	return func(o *Options) { o.Header.Add(name, value) }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithMaxBodyBytes sets the response body limit.
func WithMaxBodyBytes(n int64) Option {
	return func(o *Options) { o.MaxBodyBytes = n }
}

// WithTracer records operation and request spans with tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Options) { o.Tracer = tracer }
}
