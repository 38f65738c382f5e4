package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	Env             string // "dev" or "prod"
	SessionLifetime time.Duration
	OTelExporter    string // "none", "stdout", "otlp-http" ou "otlp-grpc"
	OTelEndpoint    string
	RateLimitRPS    float64
	RateLimitBurst  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "./blog.db"),
		Env:            getEnv("APP_ENV", "dev"),
		OTelExporter:   getEnv("OTEL_EXPORTER", "none"),
		OTelEndpoint:   os.Getenv("OTEL_ENDPOINT"),
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}

	lifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_LIFETIME inválido: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if v, ok := os.LookupEnv("RATE_LIMIT_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPS inválido: %q", v)
		}
		cfg.RateLimitRPS = rps
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_BURST"); ok {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_BURST inválido: %q", v)
		}
		cfg.RateLimitBurst = burst
	}

	switch cfg.OTelExporter {
	case "none", "stdout", "otlp-http", "otlp-grpc":
	default:
		return nil, fmt.Errorf("OTEL_EXPORTER desconhecido: %q", cfg.OTelExporter)
	}

	// Validação Estrita para Produção
	if cfg.Env == "prod" {
		if _, ok := os.LookupEnv("DATABASE_URL"); !ok {
			return nil, fmt.Errorf("produção: DATABASE_URL é obrigatório")
		}
		if cfg.IsOTLP() && cfg.OTelEndpoint == "" {
			return nil, fmt.Errorf("produção: OTEL_ENDPOINT é obrigatório para %s", cfg.OTelExporter)
		}
	}

	return cfg, nil
}

// IsProd reports whether cookies and headers should be hardened.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) IsOTLP() bool {
	return c.OTelExporter == "otlp-http" || c.OTelExporter == "otlp-grpc"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
