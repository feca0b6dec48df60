package gateway

import (
	"fmt"
	"net/url"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Targets lists the downstream service base URLs the gateway proxies to,
// keyed by path prefix ownership.
type Targets struct {
	Auth   string
	Farmer string
	Dealer string
	Admin  string
	Cart   string
}

// NewRouter builds the gateway's Echo instance: global middleware, the
// edge auth filter, the path authorization policy, and one reverse-proxy
// group per downstream service. Identity attachment (AuthFilter) is
// registered before policy evaluation; echo preserves that ordering per
// request.
func NewRouter(pool *ValidationPool, policy *Policy, targets Targets, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("cropdeal_gateway"))
	e.GET("/metrics", echoprometheus.NewHandler())

	e.Use(AuthFilter(pool, log))
	e.Use(policy.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	routes := []struct {
		prefix  string
		target  string
		rewrite map[string]string
	}{
		// The auth service mounts its routes on /auth; external callers
		// reach it under /api/auth as well.
		{"/api/auth", targets.Auth, map[string]string{"/api/auth/*": "/auth/$1"}},
		{"/auth", targets.Auth, nil},
		{"/api/farmer", targets.Farmer, nil},
		{"/api/dealer", targets.Dealer, nil},
		{"/api/admin", targets.Admin, nil},
		{"/api/cart", targets.Cart, nil},
	}
	for _, r := range routes {
		if r.target == "" {
			continue
		}
		u, err := url.Parse(r.target)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse target %q: %w", r.target, err)
		}
		cfg := echomiddleware.ProxyConfig{
			Balancer: echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{{URL: u}}),
			Rewrite:  r.rewrite,
		}
		e.Group(r.prefix).Use(echomiddleware.ProxyWithConfig(cfg))
	}

	return e, nil
}
