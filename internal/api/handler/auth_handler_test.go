package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cropdeal/marketplace-backend/internal/api"
	"github.com/cropdeal/marketplace-backend/internal/api/handler"
	"github.com/cropdeal/marketplace-backend/internal/core/domain"
	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

type stubAuthService struct {
	signInFn        func(ctx context.Context, username, password string) (string, error)
	signUpFn        func(ctx context.Context, in ports.SignUpInput) error
	checkUsernameFn func(ctx context.Context, username string) (bool, error)
	validateFn      func(ctx context.Context, token string) (*ports.ValidationResult, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	return s.signInFn(ctx, username, password)
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) error {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	return s.checkUsernameFn(ctx, username)
}

func (s *stubAuthService) Validate(ctx context.Context, token string) (*ports.ValidationResult, error) {
	return s.validateFn(ctx, token)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signInFn: func(ctx context.Context, username, password string) (string, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.SignIn, http.MethodPost, "/auth/signin", `{"username":"alice","password":"secret"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp)
	}
}

func TestAuthHandler_SignIn_InactiveIs403(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signInFn: func(ctx context.Context, username, password string) (string, error) {
			return "", domain.ErrAccountInactive
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.SignIn, http.MethodPost, "/auth/signin", `{"username":"carol","password":"rightpass"}`, nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "not found") {
		t.Fatalf("message must not imply the username is unknown: %s", rec.Body.String())
	}
}

func TestAuthHandler_SignIn_BadCredentialsIs401(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signInFn: func(ctx context.Context, username, password string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.SignIn, http.MethodPost, "/auth/signin", `{"username":"x","password":"y"}`, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_SignIn_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signInFn: func(ctx context.Context, username, password string) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.SignIn, http.MethodPost, "/auth/signin", `{"username":"alice"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_SignUp_Conflict(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signUpFn: func(ctx context.Context, in ports.SignUpInput) error {
			return domain.ErrUsernameTaken
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.SignUp, http.MethodPost, "/auth/signup", `{"username":"bob","password":"secret1","role":"FARMER"}`, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_SignUp_RejectsUnknownRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signUpFn: func(ctx context.Context, in ports.SignUpInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.SignUp, http.MethodPost, "/auth/signup", `{"username":"bob","password":"secret1","role":"WIZARD"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_CheckUsername(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		checkUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return username == "free", nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.CheckUsername, http.MethodGet, "/auth/check-username?username=free", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp["isUnique"] {
		t.Fatalf("expected isUnique true")
	}

	rec = doJSON(e, h.CheckUsername, http.MethodGet, "/auth/check-username?username=taken", "", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["isUnique"] {
		t.Fatalf("expected isUnique false")
	}
}

func TestAuthHandler_Validate_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (*ports.ValidationResult, error) {
			if token != "sometoken" {
				t.Fatalf("expected stripped token, got %q", token)
			}
			return &ports.ValidationResult{
				Username:    "kate",
				Role:        "FARMER",
				RedirectURL: "http://localhost:8083/api/farmer/",
				ID:          42,
			}, nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.Validate, http.MethodGet, "/auth/validate", "", map[string]string{
		echo.HeaderAuthorization: "Bearer sometoken",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "kate" || resp["role"] != "FARMER" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["id"].(float64) != 42 {
		t.Fatalf("expected id 42, got %v", resp["id"])
	}
	if !strings.Contains(resp["redirectUrl"].(string), "/api/farmer/") {
		t.Fatalf("unexpected redirect: %v", resp["redirectUrl"])
	}
}

func TestAuthHandler_Validate_ProfileMissingIs404(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (*ports.ValidationResult, error) {
			return nil, domain.ErrProfileNotFound
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.Validate, http.MethodGet, "/auth/validate", "", map[string]string{
		echo.HeaderAuthorization: "Bearer sometoken",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAuthHandler_Validate_BadTokenIs401(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (*ports.ValidationResult, error) {
			return nil, domain.ErrSignatureInvalid
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.Validate, http.MethodGet, "/auth/validate", "", map[string]string{
		echo.HeaderAuthorization: "Bearer forged",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "signature") {
		t.Fatalf("401 body must stay generic: %s", rec.Body.String())
	}
}

func TestAuthHandler_Validate_MissingHeader(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (*ports.ValidationResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := doJSON(e, h.Validate, http.MethodGet, "/auth/validate", "", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
