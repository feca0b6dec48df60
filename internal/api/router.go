package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cropdeal/marketplace-backend/internal/api/handler"
	"github.com/cropdeal/marketplace-backend/internal/auth/token"
	"github.com/cropdeal/marketplace-backend/internal/core/service"
	mongorepo "github.com/cropdeal/marketplace-backend/internal/infrastructure/db/mongo"
	redisrepo "github.com/cropdeal/marketplace-backend/internal/infrastructure/db/redis"
	"github.com/cropdeal/marketplace-backend/internal/pkg/config"
)

// NewAuthRouter builds the auth service's Echo instance with all routes
// registered. Routes live on the /auth prefix; the gateway additionally
// exposes them under /api/auth.
func NewAuthRouter(cfg *config.Config, db *mongo.Database, rdb *goredis.Client, key []byte, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("cropdeal_auth"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Dependencies ---
	users := mongorepo.NewUserRepository(db)
	farmers := mongorepo.NewFarmerProfileRepository(db)
	dealers := mongorepo.NewDealerProfileRepository(db)
	limiter := redisrepo.NewLoginLimiter(rdb, cfg.Auth.SignInMaxAttempts, cfg.Auth.SignInWindow)
	issuer := token.NewIssuer(key, token.TTL)

	authService := service.NewAuthService(users, farmers, dealers, issuer, key, limiter, service.RedirectTargets{
		FarmerBase:  cfg.Auth.FarmerServiceURL,
		DealerBase:  cfg.Auth.DealerServiceURL,
		AdminBase:   cfg.Auth.AdminServiceURL,
		GatewayBase: cfg.Auth.GatewayURL,
	}, log)
	authHandler := handler.NewAuthHandler(authService)

	// --- Auth routes ---
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signup", authHandler.SignUp)
	e.GET("/auth/check-username", authHandler.CheckUsername)
	e.GET("/auth/username-exists", authHandler.UsernameExists)
	e.GET("/auth/validate", authHandler.Validate)
	e.GET("/auth/health", authHandler.Health)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
