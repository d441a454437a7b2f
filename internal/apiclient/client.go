// Package apiclient talks to the shop admin REST backend: paginated lists,
// delete / status-toggle mutations, multipart uploads and a health probe.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/maxviazov/shop-admin-console/internal/config"
)

const (
	HeaderRequestID = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

type requestIDKey struct{}

// WithRequestID makes the client forward id instead of minting a new one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Client is safe for concurrent use.
type Client struct {
	base       *url.URL
	http       *http.Client
	maxRetries int
	retryDelay time.Duration
	healthPath string
	userAgent  string
	tracer     trace.Tracer
	log        zerolog.Logger
}

// New builds a client for cfg.BaseURL. A nil hc gets a client with cfg.Timeout.
func New(cfg config.APIConfig, hc *http.Client, logger zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:       base,
		http:       hc,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		healthPath: cfg.HealthPath,
		userAgent:  cfg.UserAgent,
		tracer:     otel.Tracer("github.com/maxviazov/shop-admin-console/internal/apiclient"),
		log:        logger.With().Str("module", "apiclient").Logger(),
	}, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        func() (io.Reader, int64, error) // rebuilt on every attempt
	contentType string
}

// do sends req and returns the body of a 2xx answer. Only GETs are retried, and
// only on 429/5xx or transport errors.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, req.method+" "+req.path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.method),
		attribute.String("http.route", req.path),
	)

	reqID := requestIDFrom(ctx)
	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			c.log.Debug().Err(lastErr).Str("path", req.path).Int("attempt", attempt+1).Dur("delay", delay).Msg("retrying request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				lastErr = fmt.Errorf("%s %s cancelled during retry wait: %w", req.method, req.path, ctx.Err())
				span.RecordError(lastErr)
				span.SetStatus(codes.Error, "cancelled")
				return nil, lastErr
			}
		}

		body, status, err := c.once(ctx, req, reqID)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err == nil {
			return body, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, req request, reqID string) ([]byte, int, error) {
	var (
		body   io.Reader
		length int64 = -1
	)
	if req.body != nil {
		b, n, err := req.body()
		if err != nil {
			return nil, 0, fmt.Errorf("building %s %s body: %w", req.method, req.path, err)
		}
		body, length = b, n
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path, req.query), body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating %s %s request: %w", req.method, req.path, err)
	}
	if length >= 0 {
		hreq.ContentLength = length
	}
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set(HeaderRequestID, reqID)
	if req.contentType != "" {
		hreq.Header.Set("Content-Type", req.contentType)
	}
	if c.userAgent != "" {
		hreq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		c.log.Warn().Err(err).Str("method", req.method).Str("path", req.path).Str("request_id", reqID).Msg("request failed")
		return nil, 0, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	log := c.log.With().
		Str("method", req.method).
		Str("path", req.path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Logger()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newAPIError(req.method, req.path, resp.StatusCode, raw)
		log.Warn().Str("error_body", apiErr.Body).Msg("backend returned error")
		return nil, resp.StatusCode, apiErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading %s %s response: %w", req.method, req.path, err)
	}
	log.Debug().Int("bytes", len(raw)).Msg("request done")
	return raw, resp.StatusCode, nil
}

func decode[T any](raw []byte, what string) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("parsing %s response: %w", what, err)
	}
	return out, nil
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	path := c.healthPath
	if path == "" {
		path = "/actuator/health"
	}
	_, err := c.do(ctx, request{method: http.MethodGet, path: path})
	return err
}
