package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full environment surface of the marketplace binaries.
// Every service reads the same JWT_SECRET; the derived signing key must be
// identical across deployments or tokens issued by one service would be
// rejected by another.
type Config struct {
	Port        string `env:"PORT,         default=8081"`
	FarmerPort  string `env:"FARMER_PORT,  default=8083"`
	GatewayPort string `env:"GATEWAY_PORT, default=8080"`
	Env         string `env:"ENV,          default=development"`
	JWTSecret   string `env:"JWT_SECRET"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Gateway GatewayConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cropdeal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// AuthConfig drives the auth service: sign-in throttling plus the
// redirect targets the validate endpoint hands back per role.
type AuthConfig struct {
	SignInMaxAttempts int           `env:"SIGNIN_MAX_ATTEMPTS, default=10"`
	SignInWindow      time.Duration `env:"SIGNIN_WINDOW,       default=5m"`

	FarmerServiceURL string `env:"FARMER_SERVICE_URL, default=http://localhost:8083"`
	DealerServiceURL string `env:"DEALER_SERVICE_URL, default=http://localhost:8082"`
	AdminServiceURL  string `env:"ADMIN_SERVICE_URL,  default=http://localhost:8084"`
	GatewayURL       string `env:"GATEWAY_URL,        default=http://localhost:8080"`
}

// GatewayConfig drives the edge: where to validate tokens, the worker
// pool bridging that blocking call, and the proxy targets.
type GatewayConfig struct {
	AuthServiceURL    string        `env:"AUTH_SERVICE_URL,         default=http://localhost:8081"`
	ValidationWorkers int           `env:"GATEWAY_VALIDATE_WORKERS, default=8"`
	ValidationQueue   int           `env:"GATEWAY_VALIDATE_QUEUE,   default=256"`
	ValidationTimeout time.Duration `env:"GATEWAY_VALIDATE_TIMEOUT, default=5s"`

	FarmerServiceURL string `env:"FARMER_SERVICE_URL, default=http://localhost:8083"`
	DealerServiceURL string `env:"DEALER_SERVICE_URL, default=http://localhost:8082"`
	AdminServiceURL  string `env:"ADMIN_SERVICE_URL,  default=http://localhost:8084"`
	CartServiceURL   string `env:"CART_SERVICE_URL,   default=http://localhost:8085"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
