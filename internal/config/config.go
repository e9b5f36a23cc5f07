package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"SignalSentinel/internal/analyzer"
	"SignalSentinel/internal/strategy"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
//
// Nested envconfig keys are prefixed with the parent field name; every field
// also carries the flat variable name as its tag so e.g. RSI_PERIOD is found
// through envconfig's fallback lookup.
type Config struct {
	Symbol     string `yaml:"symbol" envconfig:"SYMBOL"`
	BaseAsset  string `yaml:"base_asset" envconfig:"BASE_ASSET"`
	QuoteAsset string `yaml:"quote_asset" envconfig:"QUOTE_ASSET"`
	Proxy      string `yaml:"proxy" envconfig:"HTTPS_PROXY"`

	Exchange struct {
		BaseURL   string  `yaml:"base_url" envconfig:"BINANCE_BASE_URL"`
		Testnet   bool    `yaml:"testnet" envconfig:"BINANCE_TESTNET"`
		APIKey    string  `yaml:"api_key" envconfig:"BINANCE_API_KEY"`
		Interval  string  `yaml:"interval" envconfig:"KLINE_INTERVAL"`
		Limit     int     `yaml:"limit" envconfig:"KLINE_LIMIT"`
		RateLimit float64 `yaml:"rate_limit" envconfig:"BINANCE_RATE_LIMIT"` // requests per second
		UseMock   bool    `yaml:"use_mock" envconfig:"USE_MOCK_DATA"`
	} `yaml:"exchange"`

	Analysis struct {
		RSIPeriod        int `yaml:"rsi_period" envconfig:"RSI_PERIOD"`
		StochasticPeriod int `yaml:"stochastic_period" envconfig:"STOCH_PERIOD"`
		KPeriod          int `yaml:"k_period" envconfig:"STOCH_K_PERIOD"`
		DPeriod          int `yaml:"d_period" envconfig:"STOCH_D_PERIOD"`
		FisherPeriod     int `yaml:"fisher_period" envconfig:"FISHER_PERIOD"`
	} `yaml:"analysis"`

	// Pointers so an explicit 0 (e.g. VOLUME_WEIGHT=0) survives defaulting.
	Scoring struct {
		RSIWeight    *float64 `yaml:"rsi_weight" envconfig:"RSI_WEIGHT"`
		FisherWeight *float64 `yaml:"fisher_weight" envconfig:"FISHER_WEIGHT"`
		VolumeWeight *float64 `yaml:"volume_weight" envconfig:"VOLUME_WEIGHT"`
		Threshold    *float64 `yaml:"threshold" envconfig:"SCORE_THRESHOLD"`
	} `yaml:"scoring"`

	Trading struct {
		TradeAmount         float64       `yaml:"trade_amount" envconfig:"TRADE_AMOUNT"`
		MaxDailyTrades      int           `yaml:"max_daily_trades" envconfig:"MAX_DAILY_TRADES"`
		MinScore            float64       `yaml:"min_score" envconfig:"MIN_TRADE_SCORE"`
		AllowBuyOrders      bool          `yaml:"allow_buy_orders" envconfig:"ALLOW_BUY_ORDERS"`
		AllowSellOrders     bool          `yaml:"allow_sell_orders" envconfig:"ALLOW_SELL_ORDERS"`
		CheckInterval       time.Duration `yaml:"check_interval" envconfig:"CHECK_INTERVAL"`
		AutoStart           bool          `yaml:"auto_start" envconfig:"AUTO_START"`
		InitialQuoteBalance float64       `yaml:"initial_quote_balance" envconfig:"INITIAL_QUOTE_BALANCE"`
		StateFile           string        `yaml:"state_file" envconfig:"FUND_STATE_FILE"`
	} `yaml:"trading"`

	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID   int64  `yaml:"chat_id" envconfig:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`

	Server struct {
		Port int `yaml:"port" envconfig:"PORT"`
	} `yaml:"server"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
		Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" envconfig:"REDIS_DB"`
	} `yaml:"redis"`

	Log struct {
		Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
		Pretty bool   `yaml:"pretty" envconfig:"LOG_PRETTY"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, loads .env if present, then applies
// environment variable overrides and fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Symbol == "" {
		c.Symbol = "BTCUSDT"
	}
	c.Symbol = strings.ToUpper(c.Symbol)
	if c.BaseAsset == "" {
		c.BaseAsset = "BTC"
	}
	if c.QuoteAsset == "" {
		c.QuoteAsset = "USDT"
	}

	if c.Exchange.BaseURL == "" {
		c.Exchange.BaseURL = "https://api.binance.com"
		if c.Exchange.Testnet {
			c.Exchange.BaseURL = "https://testnet.binance.vision"
		}
	}
	if c.Exchange.Interval == "" {
		c.Exchange.Interval = "1h"
	}
	if c.Exchange.Limit == 0 {
		c.Exchange.Limit = 200
	}
	if c.Exchange.RateLimit == 0 {
		c.Exchange.RateLimit = 5
	}

	def := analyzer.DefaultConfig()
	if c.Analysis.RSIPeriod == 0 {
		c.Analysis.RSIPeriod = def.RSIPeriod()
	}
	if c.Analysis.StochasticPeriod == 0 {
		c.Analysis.StochasticPeriod = def.StochasticPeriod()
	}
	if c.Analysis.KPeriod == 0 {
		c.Analysis.KPeriod = def.KPeriod()
	}
	if c.Analysis.DPeriod == 0 {
		c.Analysis.DPeriod = def.DPeriod()
	}
	if c.Analysis.FisherPeriod == 0 {
		c.Analysis.FisherPeriod = def.FisherPeriod()
	}

	sc := strategy.DefaultConfig()
	defaultFloat(&c.Scoring.RSIWeight, sc.OscillatorWeight())
	defaultFloat(&c.Scoring.FisherWeight, sc.TransformWeight())
	defaultFloat(&c.Scoring.VolumeWeight, sc.VolumeWeight())
	defaultFloat(&c.Scoring.Threshold, sc.Threshold())

	if c.Trading.TradeAmount == 0 {
		c.Trading.TradeAmount = 10
	}
	if c.Trading.MaxDailyTrades == 0 {
		c.Trading.MaxDailyTrades = 10
	}
	if c.Trading.MinScore == 0 {
		c.Trading.MinScore = 7
	}
	if c.Trading.CheckInterval == 0 {
		c.Trading.CheckInterval = 30 * time.Second
	}
	if c.Trading.InitialQuoteBalance == 0 {
		c.Trading.InitialQuoteBalance = 1000
	}
	if c.Trading.StateFile == "" {
		c.Trading.StateFile = "data/fund_state.json"
	}

	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/signal_sentinel.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func defaultFloat(p **float64, v float64) {
	if *p == nil {
		*p = &v
	}
}

// Validate checks that all required fields are set and the core configs build.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Exchange.Limit <= 0 {
		return fmt.Errorf("exchange.limit must be positive")
	}
	if c.Exchange.RateLimit <= 0 {
		return fmt.Errorf("exchange.rate_limit must be positive")
	}
	if c.Trading.TradeAmount <= 0 {
		return fmt.Errorf("trading.trade_amount must be positive")
	}
	if c.Trading.MaxDailyTrades <= 0 {
		return fmt.Errorf("trading.max_daily_trades must be positive")
	}
	if c.Trading.CheckInterval < time.Second {
		return fmt.Errorf("trading.check_interval must be at least 1s, got %s", c.Trading.CheckInterval)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == 0) {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := c.AnalysisConfig(); err != nil {
		return err
	}
	if _, err := c.ScoringConfig(); err != nil {
		return err
	}
	return nil
}

// AnalysisConfig builds the indicator periods.
func (c *Config) AnalysisConfig() (analyzer.Config, error) {
	a := c.Analysis
	cfg, err := analyzer.NewConfig(a.RSIPeriod, a.StochasticPeriod, a.KPeriod, a.DPeriod, a.FisherPeriod)
	if err != nil {
		return analyzer.Config{}, fmt.Errorf("analysis config: %w", err)
	}
	return cfg, nil
}

// ScoringConfig builds the factor weights and decision threshold.
func (c *Config) ScoringConfig() (strategy.Config, error) {
	def := strategy.DefaultConfig()
	s := c.Scoring
	cfg, err := strategy.NewConfig(
		floatOr(s.RSIWeight, def.OscillatorWeight()),
		floatOr(s.FisherWeight, def.TransformWeight()),
		floatOr(s.VolumeWeight, def.VolumeWeight()),
		floatOr(s.Threshold, def.Threshold()),
	)
	if err != nil {
		return strategy.Config{}, fmt.Errorf("scoring config: %w", err)
	}
	return cfg, nil
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// TelegramEnabled reports whether notifications can be delivered.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}
