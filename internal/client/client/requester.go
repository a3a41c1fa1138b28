package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tavernauth/internal/common"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every single API call.
const DefaultTimeout = 10 * time.Second

// Response is a successful (2xx) API reply with its decoded body.
type Response struct {
	Status int
	Data   any
}

// Doer is the request capability AuthAPI builds on.
type Doer interface {
	Do(ctx context.Context, method, url string, body any, headers map[string]string) (*Response, error)
}

// Requester issues JSON requests with a bounded timeout and turns every
// failure into an *APIError.
type Requester struct {
	httpClient   *http.Client
	timeout      time.Duration
	log          logging.Logger
	newRequestID func() string
}

type Option func(*Requester)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Requester) { r.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Requester) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(r *Requester) { r.log = l }
}

func NewRequester(opts ...Option) *Requester {
	r := &Requester{
		httpClient:   &http.Client{},
		timeout:      DefaultTimeout,
		log:          logging.NewNop(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do sends body (JSON-encoded, nil for none) to url and decodes the reply.
//
// The timeout covers the whole exchange including reading the body. On
// expiry the call is cancelled and an *APIError with IsTimeout and status 408
// is returned. When no HTTP status is obtainable the error has
// IsNetworkError set. Non-2xx replies carry the decoded body in Data.
func (r *Requester) Do(ctx context.Context, method, url string, body any, headers map[string]string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, newNetworkError(err)
	}

	requestID := r.newRequestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	log := r.log.With("request_id", requestID, "method", method, "url", url)
	start := time.Now()

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Debug(ctx, "request timed out", "elapsed", time.Since(start))
			return nil, newTimeoutError(err)
		}
		log.Debug(ctx, "request failed", "error", err)
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Debug(ctx, "reading response timed out", "status", resp.StatusCode)
			return nil, newTimeoutError(err)
		}
		log.Debug(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return nil, newNetworkError(err)
	}
	data := decodeBody(raw)

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, data)
	}
	return &Response{Status: resp.StatusCode, Data: data}, nil
}

// decodeBody never fails: JSON first, then the raw text, then an empty object.
func decodeBody(raw []byte) any {
	var data any
	if err := json.Unmarshal(raw, &data); err == nil && data != nil {
		return data
	}
	if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
		return string(raw)
	}
	return map[string]any{}
}
