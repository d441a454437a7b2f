package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/shop-admin-console/internal/feedback"
	"github.com/maxviazov/shop-admin-console/internal/handler"
)

// stubPinger implements handler.Pinger for health endpoints.
type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func newHealthEngine(p handler.Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// nil console: only health routes are exercised here
	handler.Register(r, handler.Deps{Backend: p, Logger: zerolog.New(io.Discard)})
	return r
}

func TestReadiness_OK(t *testing.T) {
	r := newHealthEngine(stubPinger{err: nil})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestReadiness_Unavailable(t *testing.T) {
	r := newHealthEngine(stubPinger{err: errors.New("backend down")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d, body=%s", w.Code, w.Body.String())
	}
	var body struct {
		Backend string `json:"backend"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Backend != "down" || body.Error != feedback.MsgGeneric {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestReadiness_BackendTimeout(t *testing.T) {
	r := newHealthEngine(stubPinger{err: context.DeadlineExceeded})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), feedback.MsgTimeout) {
		t.Fatalf("expected timeout message, body=%s", w.Body.String())
	}
}

func TestLivenessRoot_OK(t *testing.T) {
	r := newHealthEngine(stubPinger{err: errors.New("ignored")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessRoot_OK(t *testing.T) {
	r := newHealthEngine(stubPinger{err: nil})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
