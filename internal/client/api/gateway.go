package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeaderName = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CredentialSource yields the current bearer token ("" when there is none).
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// Recorder receives per-call measurements.
type Recorder interface {
	RecordRequest(method string, status int, d time.Duration)
	RecordNetworkError(method string)
}

// UnauthorizedHandler is invoked on every 401 before the error is returned.
type UnauthorizedHandler func(ctx context.Context)

// Request describes one backend call. Path is relative to the API root.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

type Gateway struct {
	baseURL        *url.URL
	client         Doer
	credentials    CredentialSource
	limiter        *rate.Limiter
	recorder       Recorder
	log            logging.Logger
	onUnauthorized UnauthorizedHandler
}

type Option func(*Gateway)

func WithHTTPClient(c Doer) Option {
	return func(g *Gateway) { g.client = c }
}

func WithCredentials(src CredentialSource) Option {
	return func(g *Gateway) { g.credentials = src }
}

// WithRateLimit throttles outgoing requests to rps per second with the given
// burst. A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithRecorder(r Recorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(g *Gateway) { g.onUnauthorized = h }
}

// NewGateway builds a gateway for the API root baseURL, e.g.
// "https://host/api/v1".
func NewGateway(baseURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api url: unsupported scheme %q", u.Scheme)
	}

	g := &Gateway{
		baseURL: u,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SetUnauthorizedHandler replaces the 401 hook. It exists because the
// session manager is built on top of a gateway and registers itself after.
func (g *Gateway) SetUnauthorizedHandler(h UnauthorizedHandler) {
	g.onUnauthorized = h
}

// Do sends req and decodes a 2xx JSON reply into out (when out is non-nil
// and the reply has a body).
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	httpReq, requestID, err := g.build(ctx, req)
	if err != nil {
		return &RequestSetupError{Method: req.Method, Path: req.Path, Err: err}
	}

	log := g.log.With("method", req.Method, "path", req.Path, "request_id", requestID)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return &NetworkError{Method: req.Method, Path: req.Path, Err: err}
		}
	}

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		if g.recorder != nil {
			g.recorder.RecordNetworkError(req.Method)
		}
		log.Warn(ctx, "request got no response", "error", err)
		return &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	if g.recorder != nil {
		g.recorder.RecordRequest(req.Method, resp.StatusCode, time.Since(start))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &ServerError{
			Status:    resp.StatusCode,
			Detail:    parseDetail(body),
			Method:    req.Method,
			Path:      req.Path,
			RequestID: requestID,
		}
		log.Warn(ctx, "request rejected", "status", se.Status, "detail", se.Detail)
		if se.Status == http.StatusUnauthorized && g.onUnauthorized != nil {
			g.onUnauthorized(ctx)
		}
		return se
	}

	log.Debug(ctx, "request ok", "status", resp.StatusCode, "elapsed", time.Since(start))

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &RequestSetupError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (g *Gateway) build(ctx context.Context, req Request) (*http.Request, string, error) {
	if req.Method == "" {
		return nil, "", errors.New("empty method")
	}

	u := g.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, "", err
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(RequestIDHeaderName, requestID)

	if g.credentials != nil {
		token, err := g.credentials.Token(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("read credential: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return httpReq, requestID, nil
}

// parseDetail extracts the backend's "detail" field. A string is used as
// is; a list of validation errors is flattened to their "msg" values.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
