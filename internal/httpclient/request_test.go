package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type stubTransport struct {
	lastURL string
	status  int
	body    string
	err     error
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastURL = req.URL.String()
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Status:     http.StatusText(s.status),
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{},
		Request:    req,
	}, nil
}

func newStubClient(t *testing.T, transport *stubTransport) Client {
	t.Helper()
	client, err := NewInstrumentedClient(
		WithProviderName("stub"),
		WithBaseURL("https://api.example.com"),
		WithRoundTripper(transport),
		WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		t.Fatalf("NewInstrumentedClient error: %v", err)
	}
	return client
}

func TestRequest_GetWithQueryParams(t *testing.T) {
	transport := &stubTransport{status: 200, body: `{"price":"2450.10"}`}
	client := newStubClient(t, transport)

	var result struct {
		Price string `json:"price"`
	}
	resp, err := client.NewRequest().
		SetQueryParam("symbol", "ETHUSDT").
		SetResult(&result).
		Get(context.Background(), "/api/v3/ticker")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if !resp.IsSuccess() || resp.IsError() {
		t.Errorf("status helpers disagree with code %d", resp.StatusCode)
	}
	if result.Price != "2450.10" {
		t.Errorf("result.Price = %q, want 2450.10", result.Price)
	}
	want := "https://api.example.com/api/v3/ticker?symbol=ETHUSDT"
	if transport.lastURL != want {
		t.Errorf("url = %q, want %q", transport.lastURL, want)
	}
}

func TestRequest_ErrorStatus(t *testing.T) {
	transport := &stubTransport{status: 404, body: "not found"}
	client := newStubClient(t, transport)

	resp, err := client.NewRequest().Get(context.Background(), "/missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !resp.IsError() {
		t.Error("IsError = false for 404")
	}
	if resp.String() != "not found" {
		t.Errorf("body = %q, want %q", resp.String(), "not found")
	}
}

func TestRequest_ResponseErrorHandler(t *testing.T) {
	transport := &stubTransport{status: 200, body: `{"error":"rate limited"}`}
	client := newStubClient(t, transport)

	wantErr := errors.New("upstream error")
	_, err := client.NewRequestWithOptions(
		WithResponseErrorHandler(func(statusCode int, body []byte) error {
			if strings.Contains(string(body), "error") {
				return wantErr
			}
			return nil
		}),
	).Get(context.Background(), "/ticker")

	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	transport := &stubTransport{err: errors.New("connection refused")}
	client := newStubClient(t, transport)

	if _, err := client.NewRequest().Get(context.Background(), "/ticker"); err == nil {
		t.Error("Get succeeded despite transport failure")
	}
}
