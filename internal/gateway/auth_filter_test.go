package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

type stubValidator struct {
	mu       sync.Mutex
	result   *ports.ValidationResult
	err      error
	delay    time.Duration
	calls    int
	done     chan struct{}
	doneOnce sync.Once
}

func (v *stubValidator) Validate(_ context.Context, token string) (*ports.ValidationResult, error) {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()
	if v.delay > 0 {
		time.Sleep(v.delay)
	}
	if v.done != nil {
		defer v.doneOnce.Do(func() { close(v.done) })
	}
	return v.result, v.err
}

func (v *stubValidator) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

func runFilter(t *testing.T, pool *ValidationPool, authHeader string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/farmer/crops", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := AuthFilter(pool, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("filter returned error: %v", err)
	}
	return c, rec, called
}

func TestAuthFilter_ValidTokenAttachesIdentity(t *testing.T) {
	v := &stubValidator{result: &ports.ValidationResult{Username: "kate", Role: "FARMER", ID: 42}}
	pool := NewValidationPool(2, 8, v, zerolog.Nop())

	c, rec, called := runFilter(t, pool, "Bearer sometoken")
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler reached, got %d", rec.Code)
	}

	id, ok := identityFrom(c)
	if !ok {
		t.Fatalf("expected identity attached before downstream handler")
	}
	if id.Username != "kate" || id.Authority != "ROLE_FARMER" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthFilter_UnknownRoleMapsToRoleUnknown(t *testing.T) {
	v := &stubValidator{result: &ports.ValidationResult{Username: "m", Role: "GUEST"}}
	pool := NewValidationPool(2, 8, v, zerolog.Nop())

	c, _, _ := runFilter(t, pool, "Bearer sometoken")
	id, ok := identityFrom(c)
	if !ok || id.Authority != "ROLE_UNKNOWN" {
		t.Fatalf("expected ROLE_UNKNOWN, got %+v", id)
	}
	if id.Role != "GUEST" {
		t.Fatalf("raw role must be preserved, got %q", id.Role)
	}
}

func TestAuthFilter_NoBearerPassesThrough(t *testing.T) {
	v := &stubValidator{result: &ports.ValidationResult{}}
	pool := NewValidationPool(2, 8, v, zerolog.Nop())

	for _, header := range []string{"", "Basic dXNlcg=="} {
		c, rec, called := runFilter(t, pool, header)
		if !called || rec.Code != http.StatusOK {
			t.Fatalf("header %q: expected pass-through, got %d", header, rec.Code)
		}
		if _, ok := identityFrom(c); ok {
			t.Fatalf("header %q: expected no identity", header)
		}
	}
	if v.callCount() != 0 {
		t.Fatalf("validator must not be called without a bearer token")
	}
}

func TestAuthFilter_RejectionIsGeneric401Envelope(t *testing.T) {
	v := &stubValidator{err: errors.New("connection refused to 10.0.0.3:8081")}
	pool := NewValidationPool(2, 8, v, zerolog.Nop())

	_, rec, called := runFilter(t, pool, "Bearer sometoken")
	if called {
		t.Fatalf("handler must not run on validation failure")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body gatewayError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected structured envelope: %v", err)
	}
	if body.Status != http.StatusUnauthorized {
		t.Fatalf("expected status field 401, got %d", body.Status)
	}
	if body.Message != "Unauthorized: invalid or expired token" {
		t.Fatalf("message must stay generic, got %q", body.Message)
	}
}

func TestAuthFilter_RemoteRejectionIs401(t *testing.T) {
	v := &stubValidator{err: ErrTokenRejected}
	pool := NewValidationPool(2, 8, v, zerolog.Nop())

	_, rec, called := runFilter(t, pool, "Bearer expiredtoken")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthFilter_SaturatedPoolIs401(t *testing.T) {
	// One worker, zero-size queue is not possible (min 1); build a pool
	// whose single worker is busy and whose queue is full.
	v := &stubValidator{delay: 200 * time.Millisecond, result: &ports.ValidationResult{Username: "slow", Role: "FARMER"}}
	pool := NewValidationPool(1, 1, v, zerolog.Nop())

	// Occupy the worker and fill the one queue slot.
	if _, err := pool.Submit("t1"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	time.Sleep(20 * time.Millisecond) // let the worker pick up t1
	if _, err := pool.Submit("t2"); err != nil {
		t.Fatalf("second submit should land in queue: %v", err)
	}

	_, rec, called := runFilter(t, pool, "Bearer t3")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on saturated pool, got %d", rec.Code)
	}
}
