package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cropdeal/marketplace-backend/internal/api"
	"github.com/cropdeal/marketplace-backend/internal/auth/token"
	"github.com/cropdeal/marketplace-backend/internal/infrastructure/db/mongo"
	"github.com/cropdeal/marketplace-backend/internal/pkg/config"
	"github.com/cropdeal/marketplace-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "farmer-service",
	})

	key, err := token.DeriveKey(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("derive signing key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}

	e := api.NewFarmerRouter(db, key, log)

	go func() {
		log.Info().Str("port", cfg.FarmerPort).Msg("farmer service listening")
		if err := e.Start(":" + cfg.FarmerPort); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	_ = client.Disconnect(shutdownCtx)
}
