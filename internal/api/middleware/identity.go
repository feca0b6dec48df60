package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

// identityKey is the echo context key under which the request's resolved
// identity is stored. It lives exactly as long as the request.
const identityKey = "request_identity"

// SetIdentity attaches a resolved identity to the request context.
func SetIdentity(c echo.Context, id *domain.RequestIdentity) {
	c.Set(identityKey, id)
}

// Identity returns the request's resolved identity, if any.
func Identity(c echo.Context) (*domain.RequestIdentity, bool) {
	id, ok := c.Get(identityKey).(*domain.RequestIdentity)
	return id, ok && id != nil
}
