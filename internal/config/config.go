package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListenAddr     = ":8080"
	defaultJWTAccessTTL   = "24h"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultGatewayURL     = "https://api.sandbox.midtrans.com"
	defaultCourierFee     = "25000"
	defaultSearchRadius   = "20"
	defaultRequestTimeout = "15s"
)

// Discovery radius bounds exposed to clients: 5..50 km in 5 km steps.
const (
	MinSearchRadiusKm = 5.0
	MaxSearchRadiusKm = 50.0
	RadiusStepKm      = 5.0
)

type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	GatewayBaseURL   string
	GatewayServerKey string
	GatewayTimeout   time.Duration

	CourierFee            float64
	DefaultSearchRadiusKm float64
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = strings.TrimSpace(getEnv("LISTEN_ADDR", defaultListenAddr))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.GatewayBaseURL = strings.TrimSpace(getEnv("PAYMENT_GATEWAY_URL", defaultGatewayURL))
	cfg.GatewayServerKey = strings.TrimSpace(os.Getenv("PAYMENT_SERVER_KEY"))
	cfg.GatewayTimeout, err = parseDurationEnv("PAYMENT_GATEWAY_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, err
	}

	cfg.CourierFee, err = parseFloatEnv("COURIER_FEE", defaultCourierFee)
	if err != nil {
		return nil, err
	}

	cfg.DefaultSearchRadiusKm, err = parseFloatEnv("DEFAULT_SEARCH_RADIUS_KM", defaultSearchRadius)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.CourierFee < 0 {
		return fmt.Errorf("COURIER_FEE must be >= 0")
	}
	if cfg.DefaultSearchRadiusKm < MinSearchRadiusKm || cfg.DefaultSearchRadiusKm > MaxSearchRadiusKm {
		return fmt.Errorf("DEFAULT_SEARCH_RADIUS_KM must be within %.0f..%.0f", MinSearchRadiusKm, MaxSearchRadiusKm)
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.GatewayServerKey == "" {
			return fmt.Errorf("in prod/release PAYMENT_SERVER_KEY must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", name, raw)
	}
	return d, nil
}

func parseFloatEnv(name, def string) (float64, error) {
	raw := getEnv(name, def)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", name, raw)
	}
	return f, nil
}
