package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cropdeal/marketplace-backend/internal/api/metrics"
	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

const (
	bearerPrefix = "Bearer "

	// identityKey is the gateway's own request-context slot; the gateway
	// pipeline is independent of the downstream services' verifier.
	identityKey = "gateway_identity"
)

// gatewayError is the structured error envelope the edge emits on
// rejected requests.
type gatewayError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func setIdentity(c echo.Context, id *domain.RequestIdentity) {
	c.Set(identityKey, id)
}

func identityFrom(c echo.Context) (*domain.RequestIdentity, bool) {
	id, ok := c.Get(identityKey).(*domain.RequestIdentity)
	return id, ok && id != nil
}

// AuthFilter is the edge authentication filter. For every inbound request
// carrying a bearer token it delegates validation to the worker pool and
// attaches the resulting identity before the authorization policy runs.
// Requests without a bearer token pass through unauthenticated; the
// policy rejects them later if the path requires a role. Any validation
// failure short-circuits with a generic 401; transport errors are never
// exposed.
func AuthFilter(pool *ValidationPool, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				metrics.GatewayAuthTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}
			raw := strings.TrimPrefix(header, bearerPrefix)

			start := time.Now()
			resultCh, err := pool.Submit(raw)
			if err != nil {
				log.Warn().Err(err).Msg("validation pool rejected request")
				return rejectUnauthorized(c)
			}

			select {
			case out := <-resultCh:
				metrics.GatewayValidationDuration.Observe(time.Since(start).Seconds())
				if out.Err != nil {
					log.Debug().Err(out.Err).Msg("remote token validation failed")
					return rejectUnauthorized(c)
				}
				setIdentity(c, &domain.RequestIdentity{
					Username:  out.Result.Username,
					Role:      out.Result.Role,
					Authority: domain.Authority(out.Result.Role),
				})
				metrics.GatewayAuthTotal.WithLabelValues("authenticated").Inc()
				return next(c)

			case <-c.Request().Context().Done():
				// Client went away mid-validation. The pool worker still
				// finishes and its result is discarded.
				return c.Request().Context().Err()
			}
		}
	}
}

func rejectUnauthorized(c echo.Context) error {
	metrics.GatewayAuthTotal.WithLabelValues("rejected").Inc()
	return c.JSON(http.StatusUnauthorized, gatewayError{
		Message: "Unauthorized: invalid or expired token",
		Status:  http.StatusUnauthorized,
	})
}
