package gateway

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Rule maps a path prefix to the set of authorities allowed through. An
// Open rule admits anyone, identity or not. An empty Authorities set on a
// non-open rule means "any authenticated caller".
type Rule struct {
	Prefix      string
	Authorities []string
	Open        bool
}

// Policy is an ordered path-authorization table; the first matching prefix
// wins. Paths matching no declared prefix require authentication with any
// role.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy mirrors the marketplace route table: registration and
// health stay open, every service prefix is pinned to its roles.
func DefaultPolicy() *Policy {
	return NewPolicy([]Rule{
		{Prefix: "/api/auth", Open: true},
		{Prefix: "/auth", Open: true},
		{Prefix: "/health", Open: true},
		{Prefix: "/metrics", Open: true},
		{Prefix: "/api/admin", Authorities: []string{"ROLE_ADMIN"}},
		{Prefix: "/api/farmer", Authorities: []string{"ROLE_FARMER"}},
		{Prefix: "/api/dealer", Authorities: []string{"ROLE_DEALER"}},
		{Prefix: "/api/payment", Authorities: []string{"ROLE_DEALER"}},
		{Prefix: "/api/orders", Authorities: []string{"ROLE_DEALER", "ROLE_FARMER", "ROLE_ADMIN"}},
		{Prefix: "/api/chat", Authorities: []string{"ROLE_DEALER", "ROLE_FARMER"}},
		{Prefix: "/api/cart", Authorities: []string{"ROLE_DEALER"}},
		{Prefix: "/api/otp", Authorities: []string{"ROLE_DEALER", "ROLE_FARMER"}},
	})
}

// Middleware enforces the table. It runs strictly after AuthFilter, so an
// attached identity is already available when a protected prefix is hit.
func (p *Policy) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule := p.match(c.Request().URL.Path)
			if rule != nil && rule.Open {
				return next(c)
			}

			id, ok := identityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, gatewayError{
					Message: "Unauthorized: authentication required",
					Status:  http.StatusUnauthorized,
				})
			}

			if rule == nil || len(rule.Authorities) == 0 {
				// Undeclared prefix: authenticated, any role.
				return next(c)
			}

			for _, a := range rule.Authorities {
				if id.Authority == a {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, gatewayError{
				Message: "Forbidden: insufficient role",
				Status:  http.StatusForbidden,
			})
		}
	}
}

func (p *Policy) match(path string) *Rule {
	for i := range p.rules {
		if strings.HasPrefix(path, p.rules[i].Prefix) {
			return &p.rules[i]
		}
	}
	return nil
}
