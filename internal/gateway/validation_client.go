// Package gateway implements the edge ingress: out-of-band token
// validation against the auth service, path-pattern authorization, and
// reverse proxying to the downstream services.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

// ErrTokenRejected signals the auth service refused the token. The cause
// is never propagated to the client.
var ErrTokenRejected = errors.New("gateway: token rejected by auth service")

// Validator resolves a raw bearer token into a validated identity.
type Validator interface {
	Validate(ctx context.Context, token string) (*ports.ValidationResult, error)
}

// ValidationClient calls the auth service's validate endpoint.
type ValidationClient struct {
	baseURL string
	http    *http.Client
}

// NewValidationClient builds a client for the auth service at baseURL.
// The timeout bounds every validation call end-to-end.
func NewValidationClient(baseURL string, timeout time.Duration) *ValidationClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ValidationClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *ValidationClient) Validate(ctx context.Context, token string) (*ports.ValidationResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/validate", nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: build validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: validate call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w (status %d)", ErrTokenRejected, resp.StatusCode)
	}

	var result ports.ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gateway: decode validate response: %w", err)
	}
	return &result, nil
}
