package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cropdeal/marketplace-backend/internal/gateway"
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
		Service: "api-gateway",
	})

	validator := gateway.NewValidationClient(cfg.Gateway.AuthServiceURL, cfg.Gateway.ValidationTimeout)
	pool := gateway.NewValidationPool(cfg.Gateway.ValidationWorkers, cfg.Gateway.ValidationQueue, validator, log)
	defer pool.Stop()

	policy := gateway.DefaultPolicy()

	e, err := gateway.NewRouter(pool, policy, gateway.Targets{
		Auth:   cfg.Gateway.AuthServiceURL,
		Farmer: cfg.Gateway.FarmerServiceURL,
		Dealer: cfg.Gateway.DealerServiceURL,
		Admin:  cfg.Gateway.AdminServiceURL,
		Cart:   cfg.Gateway.CartServiceURL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build gateway router")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.GatewayPort).Msg("gateway listening")
		if err := e.Start(":" + cfg.GatewayPort); err != nil {
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
}
