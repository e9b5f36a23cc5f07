package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"SignalSentinel/internal/model"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "BTCUSDT" {
		t.Errorf("expected BTCUSDT, got %s", cfg.Symbol)
	}
	if cfg.Analysis.RSIPeriod != 14 || cfg.Analysis.FisherPeriod != 9 {
		t.Errorf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	sc, err := cfg.ScoringConfig()
	if err != nil {
		t.Fatalf("scoring config: %v", err)
	}
	if sc.OscillatorWeight() != 0.4 || sc.VolumeWeight() != 0.2 || sc.Threshold() != 7 {
		t.Errorf("unexpected scoring defaults: %+v", sc)
	}
	if cfg.Trading.CheckInterval != 30*time.Second {
		t.Errorf("expected 30s interval, got %s", cfg.Trading.CheckInterval)
	}
	if cfg.Trading.AllowBuyOrders || cfg.Trading.AllowSellOrders {
		t.Error("orders must be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without credentials")
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeYAML(t, `
symbol: ethusdt
exchange:
  testnet: true
analysis:
  rsi_period: 10
  fisher_period: 12
scoring:
  threshold: 6.5
trading:
  check_interval: 2m
  allow_buy_orders: true
telegram:
  bot_token: yaml-token
  chat_id: 42
`)
	t.Setenv("RSI_PERIOD", "21")
	t.Setenv("FISHER_WEIGHT", "0.5")
	t.Setenv("ALLOW_SELL_ORDERS", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "ETHUSDT" {
		t.Errorf("expected ETHUSDT, got %s", cfg.Symbol)
	}
	if cfg.Exchange.BaseURL != "https://testnet.binance.vision" {
		t.Errorf("expected testnet url, got %s", cfg.Exchange.BaseURL)
	}
	if cfg.Analysis.RSIPeriod != 21 {
		t.Errorf("env should override yaml rsi period, got %d", cfg.Analysis.RSIPeriod)
	}
	if cfg.Analysis.FisherPeriod != 12 {
		t.Errorf("yaml fisher period lost, got %d", cfg.Analysis.FisherPeriod)
	}
	sc, err := cfg.ScoringConfig()
	if err != nil {
		t.Fatalf("scoring config: %v", err)
	}
	if sc.TransformWeight() != 0.5 || sc.Threshold() != 6.5 {
		t.Errorf("unexpected scoring: %+v", sc)
	}
	if cfg.Trading.CheckInterval != 2*time.Minute {
		t.Errorf("expected 2m, got %s", cfg.Trading.CheckInterval)
	}
	if !cfg.Trading.AllowBuyOrders || !cfg.Trading.AllowSellOrders {
		t.Errorf("expected both order flags, got %+v", cfg.Trading)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != 42 {
		t.Errorf("unexpected telegram: %+v", cfg.Telegram)
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestLoad_ExplicitZeroWeights(t *testing.T) {
	path := writeYAML(t, `
scoring:
  rsi_weight: 0
`)
	t.Setenv("VOLUME_WEIGHT", "0")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc, err := cfg.ScoringConfig()
	if err != nil {
		t.Fatalf("scoring config: %v", err)
	}
	if sc.OscillatorWeight() != 0 || sc.VolumeWeight() != 0 {
		t.Errorf("explicit zero weights replaced by defaults: %+v", sc)
	}
	if sc.TransformWeight() != 0.4 || sc.Threshold() != 7 {
		t.Errorf("unset values should default: %+v", sc)
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("MAX_DAILY_TRADES", "many")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for non-numeric MAX_DAILY_TRADES")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeYAML(t, "symbol: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *Config)
		wantConfig bool // error wraps ErrInvalidConfiguration
	}{
		{"rsi period too short", func(c *Config) { c.Analysis.RSIPeriod = 1 }, true},
		{"negative weight", func(c *Config) { c.Scoring.VolumeWeight = floatPtr(-1) }, true},
		{"threshold above max", func(c *Config) { c.Scoring.Threshold = floatPtr(11) }, true},
		{"interval too short", func(c *Config) { c.Trading.CheckInterval = time.Millisecond }, false},
		{"telegram half set", func(c *Config) { c.Telegram.BotToken = "x" }, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantConfig && !errors.Is(err, model.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}
