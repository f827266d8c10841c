package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type recordingMetrics struct {
	failures []string
}

func (r *recordingMetrics) RecordAuthFailure(ctx context.Context, reason string) {
	r.failures = append(r.failures, reason)
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pr, ok := FromContext(r.Context())
		if !ok {
			t.Error("Expected principal in context")
		} else if pr.UserID != wantUserID {
			t.Errorf("Expected user %s, got %s", wantUserID, pr.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	ver, key := newTestVerifier(t)
	handler := Middleware(ver)(okHandler(t, "user-123"))

	req := httptest.NewRequest(http.MethodGet, "/organizations", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, "test-key", validClaims()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	ver, _ := newTestVerifier(t)
	metrics := &recordingMetrics{}
	handler := MiddlewareWithMetrics(ver, metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/organizations", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if len(metrics.failures) != 1 || metrics.failures[0] != "missing_authorization" {
		t.Errorf("Expected missing_authorization failure, got %v", metrics.failures)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	ver, _ := newTestVerifier(t)
	metrics := &recordingMetrics{}
	handler := MiddlewareWithMetrics(ver, metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/organizations", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if len(metrics.failures) != 1 || metrics.failures[0] != "invalid_header_format" {
		t.Errorf("Expected invalid_header_format failure, got %v", metrics.failures)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	ver, key := newTestVerifier(t)
	metrics := &recordingMetrics{}
	handler := MiddlewareWithMetrics(ver, metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	req := httptest.NewRequest(http.MethodGet, "/organizations", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, "test-key", claims))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if len(metrics.failures) != 1 || metrics.failures[0] != "invalid_token" {
		t.Errorf("Expected invalid_token failure, got %v", metrics.failures)
	}
}

func TestFromContext_Empty(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("Expected no principal in empty context")
	}
}

func TestContextWithPrincipal_RoundTrip(t *testing.T) {
	pr := &Principal{UserID: "user-9", Claims: jwt.MapClaims{}}
	ctx := ContextWithPrincipal(context.Background(), pr)

	got, ok := FromContext(ctx)
	if !ok || got.UserID != "user-9" {
		t.Errorf("Expected principal round trip, got ok=%v pr=%+v", ok, got)
	}
}
