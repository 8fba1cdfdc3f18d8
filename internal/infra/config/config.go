package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Prediction PredictionConfig `yaml:"prediction"`
	Auth       AuthConfig       `yaml:"auth"`
	Postgres   PostgresConfig   `yaml:"postgres"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// GeminiConfig contains generative model settings.
//
// APIKey may legitimately be empty: the two AI endpoints then answer 500
// while the rest of the service keeps running.
type GeminiConfig struct {
	APIKey  string        `yaml:"apiKey"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// PredictionConfig points at the rainfall prediction microservice.
type PredictionConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig drives token issuance.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	// The original deployment configured only a port number.
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	// GOOGLE_API_KEY wins over GEMINI_API_KEY, matching the original backend.
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Gemini.Timeout = parsed
		}
	}
	if v := os.Getenv("ML_SERVICE_URL"); v != "" {
		cfg.Prediction.BaseURL = v
	}
	if v := os.Getenv("ML_SERVICE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Prediction.Timeout = parsed
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("JWT_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Gemini: GeminiConfig{
			Model:   "gemini-1.5-flash",
			Timeout: 60 * time.Second,
		},
		Prediction: PredictionConfig{
			Timeout: 7 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL:        24 * time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Gemini.Model) == "" {
		return errors.New("gemini.model cannot be empty")
	}
	if c.Gemini.Timeout <= 0 {
		return errors.New("gemini.timeout must be positive")
	}
	if c.Prediction.Timeout <= 0 {
		return errors.New("prediction.timeout must be positive")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth.refreshTokenTtl must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
