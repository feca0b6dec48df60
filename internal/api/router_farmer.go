package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cropdeal/marketplace-backend/internal/api/handler"
	"github.com/cropdeal/marketplace-backend/internal/api/middleware"
	"github.com/cropdeal/marketplace-backend/internal/core/domain"
	"github.com/cropdeal/marketplace-backend/internal/core/service"
	mongorepo "github.com/cropdeal/marketplace-backend/internal/infrastructure/db/mongo"
)

// NewFarmerRouter builds the farmer service's Echo instance. Every request
// passes through the local token verifier; routes that change crop data
// additionally demand the farmer authority. The gateway has normally
// authenticated the caller already, so the verifier here is a second,
// self-contained check that also covers direct service-to-service calls.
func NewFarmerRouter(db *mongo.Database, key []byte, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("cropdeal_farmer"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Dependencies ---
	users := mongorepo.NewUserRepository(db)
	farmers := mongorepo.NewFarmerProfileRepository(db)
	crops := mongorepo.NewCropRepository(db)

	cropService := service.NewCropService(crops, log)
	cropHandler := handler.NewCropHandler(cropService, farmers)

	e.Use(middleware.LocalVerifier(key, users, log))

	// --- Crop routes ---
	farmerOnly := middleware.RequireAuthority(domain.Authority(string(domain.RoleFarmer)))

	g := e.Group("/api/farmer")
	g.GET("/crops", cropHandler.ListAll)
	g.GET("/crops/:id", cropHandler.Get)
	g.POST("/crops", cropHandler.Publish, farmerOnly)
	g.GET("/crops/mine", cropHandler.ListMine, farmerOnly)
	g.PUT("/crops/:id", cropHandler.Update, farmerOnly)
	g.DELETE("/crops/:id", cropHandler.Delete, farmerOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, nil)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
