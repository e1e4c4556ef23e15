package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceOption selects which bodies get attached to spans.
type TraceOption string

const (
	TraceRequest  TraceOption = "request"
	TraceResponse TraceOption = "response"
)

type clientOptions struct {
	providerName   string
	baseURL        string
	headers        map[string]string
	requestTimeout *time.Duration
	roundTripper   http.RoundTripper
	tracer         trace.Tracer
	traceRequest   bool
	traceResponse  bool
}

// ClientOption configures NewInstrumentedClient.
type ClientOption func(*clientOptions)

func newClientOptions(opts ...ClientOption) *clientOptions {
	options := &clientOptions{}
	for _, o := range opts {
		o(options)
	}
	return options
}

// WithProviderName labels metrics and spans with the upstream's name.
func WithProviderName(name string) ClientOption {
	return func(o *clientOptions) {
		o.providerName = name
	}
}

// WithBaseURL prefixes relative request URLs.
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.baseURL = url
	}
}

// WithHeaders sets headers applied to every request.
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *clientOptions) {
		o.headers = headers
	}
}

// WithRequestTimeout overrides the default request timeout.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.requestTimeout = &timeout
	}
}

// WithRoundTripper swaps the underlying transport, mainly for tests.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.roundTripper = rt
	}
}

// WithTraceOptions sets the tracer and enables body capture on spans.
func WithTraceOptions(tracer trace.Tracer, opts ...TraceOption) ClientOption {
	return func(o *clientOptions) {
		o.tracer = tracer
		for _, opt := range opts {
			switch opt {
			case TraceRequest:
				o.traceRequest = true
			case TraceResponse:
				o.traceResponse = true
			}
		}
	}
}

// ResponseErrorHandler inspects a completed response and may turn it into an
// error, for APIs that report failures inside a 200 body.
type ResponseErrorHandler func(statusCode int, body []byte) error

// Label is a key-value pair attached to the request counter.
type Label struct {
	Key   string
	Value string
}

// NewLabel creates a Label.
func NewLabel(key, value string) *Label {
	return &Label{Key: key, Value: value}
}

type requestOptions struct {
	labels       []*Label
	errorHandler ResponseErrorHandler
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

func newRequestOptions(opts ...RequestOption) *requestOptions {
	options := &requestOptions{}
	for _, o := range opts {
		o(options)
	}
	return options
}

// WithLabels attaches metric labels to the request.
func WithLabels(labels ...*Label) RequestOption {
	return func(o *requestOptions) {
		o.labels = labels
	}
}

// WithResponseErrorHandler sets a custom response error check.
func WithResponseErrorHandler(handler ResponseErrorHandler) RequestOption {
	return func(o *requestOptions) {
		o.errorHandler = handler
	}
}
