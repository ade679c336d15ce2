package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Simulator SimulatorConfig
	Valuation ValuationConfig
}

type ServerConfig struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding    string `env:"LOG_ENCODING" envDefault:"json"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// CacheConfig selects the valuation cache. An empty RedisAddr keeps the
// cache in process.
type CacheConfig struct {
	RedisAddr string        `env:"REDIS_ADDR"`
	TTL       time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	LRUSize   int           `env:"CACHE_LRU_SIZE" envDefault:"512"`
}

type RateLimitConfig struct {
	Capacity int           `env:"RATE_LIMIT_CAPACITY" envDefault:"5"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type SimulatorConfig struct {
	ValuationDelay time.Duration `env:"SIM_VALUATION_DELAY" envDefault:"1500ms"`
	ScanDelay      time.Duration `env:"SIM_SCAN_DELAY" envDefault:"2000ms"`
}

type ValuationConfig struct {
	// CurrentYear pins the reference year; zero means the clock's year.
	CurrentYear          int  `env:"VALUATION_CURRENT_YEAR" envDefault:"0"`
	UnknownBrandFallback bool `env:"VALUATION_UNKNOWN_BRAND_FALLBACK" envDefault:"false"`
}

func ReadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.RateLimit.Capacity <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_CAPACITY must be positive, got %d", cfg.RateLimit.Capacity)
	}
	if cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimit.Window)
	}

	return cfg, nil
}
