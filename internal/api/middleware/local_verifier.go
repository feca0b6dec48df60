package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cropdeal/marketplace-backend/internal/auth/token"
	"github.com/cropdeal/marketplace-backend/internal/core/domain"
	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

const bearerPrefix = "Bearer "

// LocalVerifier is the defense-in-depth filter run inside a backend
// service, independent of the gateway: it verifies an incoming bearer
// token against the shared key and a local identity lookup, and attaches a
// request-scoped identity on success.
//
// It never fails a request. Tokens that are absent, not structurally three
// segments, forged, expired, or referencing an unknown user all leave the
// request unauthenticated; route-level guards decide whether that is
// acceptable.
func LocalVerifier(key []byte, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	issuer := token.NewIssuer(key, 0)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}
			raw := strings.TrimPrefix(header, bearerPrefix)

			// Not a compact JWS at all: skip silently rather than 401.
			if len(strings.Split(raw, ".")) != 3 {
				return next(c)
			}

			claims, err := token.Verify(raw, key)
			if err != nil {
				return continueUnauthenticated(c, next, log, err)
			}
			if issuer.IsExpired(claims) {
				return continueUnauthenticated(c, next, log, domain.ErrTokenExpired)
			}

			user, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				return continueUnauthenticated(c, next, log, err)
			}

			SetIdentity(c, &domain.RequestIdentity{
				Username:  user.Username,
				Role:      user.Role.String(),
				Authority: domain.Authority(user.Role.String()),
			})
			return next(c)
		}
	}
}

// continueUnauthenticated is the single place encoding the verifier's
// availability-over-strictness policy: verification and lookup failures
// are logged and swallowed, and the request proceeds without an identity.
// Tightening the posture later means changing only this function.
func continueUnauthenticated(c echo.Context, next echo.HandlerFunc, log zerolog.Logger, err error) error {
	log.Debug().
		Err(err).
		Str("path", c.Request().URL.Path).
		Msg("token verification failed, continuing unauthenticated")
	return next(c)
}
