package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("MARKETDESK_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("MARKETDESK_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestConfig_BackendURLEnvTrimsSlash(t *testing.T) {
	t.Setenv("MARKETDESK_BACKEND_URL", "https://api.example.com/v1/")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Backend.BaseURL != "https://api.example.com/v1" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marketdesk.toml")
	content := `
environment = "production"

[server]
port = 7000

[backend]
base_url = "https://backend.internal/api"
timeout = "5s"

[trading]
min_order_value = 25.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MARKETDESK_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Backend.GetTimeout() != 5*time.Second {
		t.Errorf("Backend timeout = %v, want 5s", cfg.Backend.GetTimeout())
	}
	if cfg.Trading.MinOrderValue != 25 {
		t.Errorf("MinOrderValue = %v, want 25", cfg.Trading.MinOrderValue)
	}
	// untouched sections keep defaults
	if cfg.Trading.PriceDeviationWarnPct != 5 {
		t.Errorf("PriceDeviationWarnPct = %v, want default 5", cfg.Trading.PriceDeviationWarnPct)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend.RateLimit != 20 {
		t.Errorf("RateLimit = %d, want 20", cfg.Backend.RateLimit)
	}
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestAuthConfig_SessionTTLFallback(t *testing.T) {
	c := AuthConfig{SessionTTL: "bogus"}
	if c.GetSessionTTL() != 12*time.Hour {
		t.Errorf("GetSessionTTL = %v, want 12h", c.GetSessionTTL())
	}
	c.SessionTTL = "30m"
	if c.GetSessionTTL() != 30*time.Minute {
		t.Errorf("GetSessionTTL = %v, want 30m", c.GetSessionTTL())
	}
}

func TestConfig_TradingThresholdEnvOverrides(t *testing.T) {
	t.Setenv("MARKETDESK_MIN_ORDER_VALUE", "25")
	t.Setenv("MARKETDESK_BALANCE_WARN_PCT", "-5")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Trading.MinOrderValue != 25 {
		t.Errorf("Trading.MinOrderValue = %v, want 25", cfg.Trading.MinOrderValue)
	}
	if cfg.Trading.BalanceWarnPct != 90 {
		t.Errorf("Trading.BalanceWarnPct = %v, want default 90 for a non-positive override", cfg.Trading.BalanceWarnPct)
	}
}

func TestConfig_AllowedOriginsEnvOverride(t *testing.T) {
	t.Setenv("MARKETDESK_ALLOWED_ORIGINS", " https://a.example, ,https://b.example ")

	cfg := NewDefaultConfig()
	cfg.Server.AllowedOrigins = []string{"https://old.example"}
	applyEnvOverrides(cfg)

	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, want)
	}
	for i, o := range want {
		if cfg.Server.AllowedOrigins[i] != o {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.Server.AllowedOrigins[i], o)
		}
	}
}
