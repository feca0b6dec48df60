package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cropdeal/marketplace-backend/internal/api/metrics"
	"github.com/cropdeal/marketplace-backend/internal/core/domain"
	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signInResponse struct {
	Token string `json:"token"`
}

type signUpRequest struct {
	Username     string `json:"username" validate:"required,min=3"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"required,oneof=ADMIN FARMER DEALER"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Address      string `json:"address,omitempty"`
}

// SignIn authenticates a user and returns a signed token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(signInResult(err)).Inc()
		return err
	}

	metrics.SignInsTotal.WithLabelValues("issued").Inc()
	return c.JSON(http.StatusOK, signInResponse{Token: token})
}

func signInResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "rate_limited"
	default:
		return "invalid_credentials"
	}
}

// SignUp registers a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
	})
	if err != nil {
		return err
	}

	metrics.SignUpsTotal.WithLabelValues(req.Role).Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "user registered successfully"})
}

// CheckUsername reports whether a username is still available.
//
// @Summary      Username availability
// @Tags         auth
// @Produce      json
// @Param        username  query     string  true  "Username to check"
// @Success      200       {object}  map[string]bool
// @Router       /auth/check-username [get]
func (h *AuthHandler) CheckUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	unique, err := h.authService.CheckUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"isUnique": unique})
}

// UsernameExists is the inverse of CheckUsername, kept for callers that
// want a bare boolean.
func (h *AuthHandler) UsernameExists(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	unique, err := h.authService.CheckUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, !unique)
}

// Validate confirms a bearer token and resolves the caller into a profile
// id and service redirect target.
//
// @Summary      Validate token and resolve redirect
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer token"
// @Success      200  {object}  ports.ValidationResult
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	// The raw token is accepted with or without the Bearer prefix.
	raw := strings.TrimPrefix(header, "Bearer ")

	result, err := h.authService.Validate(c.Request().Context(), raw)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(validationOutcome(err)).Inc()
		return err
	}

	metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, result)
}

func validationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "profile_missing"
	default:
		return "invalid"
	}
}

// Health is the auth-service liveness probe kept on the public /auth
// prefix for external callers.
func (h *AuthHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Authentication service is up and running")
}
