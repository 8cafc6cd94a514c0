package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/near/near-jsonrpc-go/pkg/log"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Dialer delivers one JSON-RPC request and returns the raw response.
// Implementations must be safe for concurrent use.
type Dialer interface {
	// Call sends req and returns the parsed response body. The returned
	// value is not checked for JSON-RPC validity; that is left to
	// DecodeEnvelope. The context bounds the whole exchange.
	Call(ctx context.Context, req value.Value) (value.Value, error)
}

// HTTPDialerConfig contains configuration options for the HTTP dialer.
type HTTPDialerConfig struct {
	// Timeout bounds a single request, including reading the body.
	// Zero leaves the request bounded by its context only.
	Timeout time.Duration

	// MaxResponseBytes caps the size of an accepted response body.
	MaxResponseBytes int64

	// Headers are added to every request, for example an API key.
	Headers map[string]string

	// UserAgent is sent as the User-Agent header.
	UserAgent string
}

// DefaultHTTPDialerConfig provides defaults suitable for public RPC endpoints.
var DefaultHTTPDialerConfig = HTTPDialerConfig{
	Timeout:          30 * time.Second,
	MaxResponseBytes: 64 << 20,
	UserAgent:        "near-jsonrpc-go",
}

// HTTPDialer implements Dialer by POSTing requests to a single endpoint.
type HTTPDialer struct {
	url    string
	cfg    HTTPDialerConfig
	client *http.Client
}

var _ Dialer = (*HTTPDialer)(nil)

// NewHTTPDialer returns a dialer for the endpoint at url.
//
// Example:
//
//	dialer := rpc.NewHTTPDialer("https://rpc.mainnet.near.org", rpc.DefaultHTTPDialerConfig)
//	client, err := rpc.NewClient(dialer)
func NewHTTPDialer(url string, cfg HTTPDialerConfig) *HTTPDialer {
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultHTTPDialerConfig.MaxResponseBytes
	}
	return &HTTPDialer{
		url:    url,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// URL returns the endpoint the dialer posts to.
func (d *HTTPDialer) URL() string { return d.url }

// Call implements Dialer.
//
// A non-2xx status is an ErrHTTPStatus error, unless the body is a JSON-RPC
// error response; nodes answer some invalid requests with 4xx or 5xx and a
// regular error envelope, which is returned as is.
func (d *HTTPDialer) Call(ctx context.Context, req value.Value) (value.Value, error) {
	if req.IsNull() {
		return value.Value{}, ErrNilRequest
	}
	lg := log.FromContext(ctx).WithName("http-dialer")

	body, err := req.MarshalJSON()
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if d.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", d.cfg.UserAgent)
	}
	for k, v := range d.cfg.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := d.client.Do(httpReq)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.cfg.MaxResponseBytes+1))
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %w", ErrReadResponse, err)
	}
	if int64(len(data)) > d.cfg.MaxResponseBytes {
		return value.Value{}, fmt.Errorf("%w: body exceeds %d bytes", ErrReadResponse, d.cfg.MaxResponseBytes)
	}
	lg.Debug("response received", "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	parsed, parseErr := value.Parse(data)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if parseErr == nil && parsed.Has("error") {
			return parsed, nil
		}
		return value.Value{}, fmt.Errorf("%w: %s: %s", ErrHTTPStatus, resp.Status, excerpt(data))
	}
	if parseErr != nil {
		return value.Value{}, fmt.Errorf("%w: %w", ErrInvalidResponse, parseErr)
	}
	return parsed, nil
}

// excerpt shortens a response body for inclusion in an error message.
func excerpt(data []byte) string {
	const limit = 256
	data = bytes.TrimSpace(data)
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
