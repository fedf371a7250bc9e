package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeout_DefaultPath(t *testing.T) {
	cfg := TimeoutConfig{
		Default:          50 * time.Millisecond,
		Extended:         100 * time.Millisecond,
		ExtendedPatterns: []string{"/generate"},
	}

	handler := Timeout(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestTimeout_ExtendedPathOutlivesDefault(t *testing.T) {
	cfg := TimeoutConfig{
		Default:          10 * time.Millisecond,
		Extended:         100 * time.Millisecond,
		ExtendedPatterns: []string{"/generate"},
	}

	handler := Timeout(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Longer than the default deadline, within the extended one
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (extended timeout should allow request)", rec.Code, http.StatusOK)
	}
}

func TestTimeout_ExtendedPathDeadline(t *testing.T) {
	cfg := TimeoutConfig{
		Default:          10 * time.Millisecond,
		Extended:         time.Minute,
		ExtendedPatterns: []string{"/generate"},
	}

	var deadline time.Time
	handler := Timeout(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, _ = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	remaining := time.Until(deadline)
	if remaining < 50*time.Second {
		t.Errorf("generate deadline %v from now, want close to the extended timeout", remaining)
	}
}

func TestTimeout_DefaultTimedOut(t *testing.T) {
	cfg := TimeoutConfig{
		Default:          10 * time.Millisecond,
		Extended:         100 * time.Millisecond,
		ExtendedPatterns: []string{"/generate"},
	}

	handler := Timeout(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(50 * time.Millisecond):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want %d (should timeout)", rec.Code, http.StatusGatewayTimeout)
	}
}

func TestTimeout_CancelsHandlerContext(t *testing.T) {
	cfg := TimeoutConfig{
		Default:  10 * time.Millisecond,
		Extended: 100 * time.Millisecond,
	}

	errCh := make(chan error, 1)
	handler := Timeout(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		errCh <- r.Context().Err()
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	select {
	case err := <-errCh:
		if err != context.DeadlineExceeded {
			t.Errorf("context error = %v, want DeadlineExceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler context was never cancelled")
	}
}
