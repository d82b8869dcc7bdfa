package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for marketdesk
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Backend     BackendConfig `toml:"backend"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Trading     TradingConfig `toml:"trading"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// AllowedOrigins lists browser origins, besides the server's own host,
	// that may open notification websockets. "*" allows any origin.
	AllowedOrigins []string `toml:"allowed_origins"`
}

// BackendConfig holds the marketplace REST API configuration
type BackendConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *BackendConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StorageConfig holds the session token store location
type StorageConfig struct {
	Path string `toml:"path"`
}

// AuthConfig holds session configuration.
// JWTSecret is optional; when set, backend tokens are signature-checked.
type AuthConfig struct {
	JWTSecret  string `toml:"jwt_secret"`
	SessionTTL string `toml:"session_ttl"` // fallback lifetime when a token carries no exp
}

// GetSessionTTL parses and returns the session fallback lifetime.
func (c *AuthConfig) GetSessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}

// TradingConfig holds order pre-validation thresholds
type TradingConfig struct {
	MinOrderValue         float64 `toml:"min_order_value"`
	PriceDeviationWarnPct float64 `toml:"price_deviation_warn_pct"`
	BalanceWarnPct        float64 `toml:"balance_warn_pct"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Backend: BackendConfig{
			BaseURL:   "http://localhost:5000/api",
			RateLimit: 20,
			Timeout:   "30s",
		},
		Storage: StorageConfig{
			Path: "data/sessions",
		},
		Auth: AuthConfig{
			SessionTTL: "12h",
		},
		Trading: TradingConfig{
			MinOrderValue:         10,
			PriceDeviationWarnPct: 5,
			BalanceWarnPct:        90,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/marketdesk.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETDESK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MARKETDESK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MARKETDESK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if origins := os.Getenv("MARKETDESK_ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				config.Server.AllowedOrigins = append(config.Server.AllowedOrigins, o)
			}
		}
	}

	if url := os.Getenv("MARKETDESK_BACKEND_URL"); url != "" {
		config.Backend.BaseURL = strings.TrimRight(url, "/")
	}

	if rl := os.Getenv("MARKETDESK_BACKEND_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil && n > 0 {
			config.Backend.RateLimit = n
		}
	}

	if path := os.Getenv("MARKETDESK_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if level := os.Getenv("MARKETDESK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("MARKETDESK_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("MARKETDESK_AUTH_SESSION_TTL"); v != "" {
		config.Auth.SessionTTL = v
	}

	envFloat("MARKETDESK_MIN_ORDER_VALUE", &config.Trading.MinOrderValue)
	envFloat("MARKETDESK_PRICE_DEVIATION_WARN_PCT", &config.Trading.PriceDeviationWarnPct)
	envFloat("MARKETDESK_BALANCE_WARN_PCT", &config.Trading.BalanceWarnPct)
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			*dst = f
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
