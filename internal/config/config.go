// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Exchanges    ExchangesConfig    `mapstructure:"exchanges"`
	Monitor      MonitorConfig      `mapstructure:"monitor"`
	Fees         FeesConfig         `mapstructure:"fees"`
	Alerting     AlertingConfig     `mapstructure:"alerting"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	HealthPort  int    `mapstructure:"health_port"`
}

// ExchangesConfig holds per-venue API configuration.
type ExchangesConfig struct {
	Enabled  []string       `mapstructure:"enabled"`
	Binance  BinanceConfig  `mapstructure:"binance"`
	Coinbase CoinbaseConfig `mapstructure:"coinbase"`
	Kraken   KrakenConfig   `mapstructure:"kraken"`
}

// BinanceConfig holds Binance API configuration.
type BinanceConfig struct {
	RESTURL           string        `mapstructure:"rest_url"`
	WebSocketURL      string        `mapstructure:"websocket_url"` // wss://stream.binance.com:9443
	StreamEnabled     bool          `mapstructure:"stream_enabled"`
	StaleTimeout      time.Duration `mapstructure:"stale_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// CoinbaseConfig holds Coinbase Exchange API configuration.
type CoinbaseConfig struct {
	RESTURL           string `mapstructure:"rest_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// KrakenConfig holds Kraken API configuration.
type KrakenConfig struct {
	RESTURL           string `mapstructure:"rest_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// MonitorConfig holds spread monitoring configuration.
type MonitorConfig struct {
	Pairs        []string      `mapstructure:"pairs"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	TradeAmount  float64       `mapstructure:"trade_amount"`
	MinSpread    float64       `mapstructure:"min_spread"`
	TUIMode      bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// FeesConfig holds the simulated fee schedule. Rates are fractions
// (0.001 = 0.1%), fixed fees are quoted in the pair's quote currency.
type FeesConfig struct {
	BuyFeeRate    float64 `mapstructure:"buy_fee_rate"`
	SellFeeRate   float64 `mapstructure:"sell_fee_rate"`
	WithdrawalFee float64 `mapstructure:"withdrawal_fee"`
	GasFee        float64 `mapstructure:"gas_fee"`
}

// AlertingConfig holds alert engine configuration.
type AlertingConfig struct {
	Threshold    float64 `mapstructure:"threshold"`
	SoundEnabled bool    `mapstructure:"sound_enabled"`
	HistorySize  int     `mapstructure:"history_size"`
}

// SubscriptionConfig seeds the local subscription state. A real deployment
// would source this from the billing backend; here it is plain configuration.
type SubscriptionConfig struct {
	Paid            bool   `mapstructure:"paid"`
	PurchaseDate    string `mapstructure:"purchase_date"`
	StripeSessionID string `mapstructure:"stripe_session_id"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SPREADWATCH")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SPREADWATCH_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SPREADWATCH_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SPREADWATCH_LOG_LEVEL", "LOG_LEVEL")

	// Exchanges
	v.BindEnv("exchanges.enabled", "SPREADWATCH_EXCHANGES")
	v.BindEnv("exchanges.binance.rest_url", "SPREADWATCH_BINANCE_REST_URL", "BINANCE_REST_URL")
	v.BindEnv("exchanges.binance.websocket_url", "SPREADWATCH_BINANCE_WS_URL", "BINANCE_WS_URL")
	v.BindEnv("exchanges.coinbase.rest_url", "SPREADWATCH_COINBASE_REST_URL", "COINBASE_REST_URL")
	v.BindEnv("exchanges.kraken.rest_url", "SPREADWATCH_KRAKEN_REST_URL", "KRAKEN_REST_URL")

	// Monitor
	v.BindEnv("monitor.pairs", "SPREADWATCH_PAIRS")
	v.BindEnv("monitor.poll_interval", "SPREADWATCH_POLL_INTERVAL")
	v.BindEnv("monitor.trade_amount", "SPREADWATCH_TRADE_AMOUNT")

	// Alerting
	v.BindEnv("alerting.threshold", "SPREADWATCH_ALERT_THRESHOLD")
	v.BindEnv("alerting.sound_enabled", "SPREADWATCH_ALERT_SOUND")

	// Subscription
	v.BindEnv("subscription.paid", "SPREADWATCH_PAID")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SPREADWATCH_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SPREADWATCH_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SPREADWATCH_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "spreadwatch")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.health_port", 8081)

	// Exchange defaults
	v.SetDefault("exchanges.enabled", []string{"binance", "coinbase", "kraken"})
	v.SetDefault("exchanges.binance.rest_url", "https://api.binance.com")
	v.SetDefault("exchanges.binance.websocket_url", "wss://stream.binance.com:9443")
	v.SetDefault("exchanges.binance.stream_enabled", true)
	v.SetDefault("exchanges.binance.stale_timeout", "10s")
	v.SetDefault("exchanges.binance.requests_per_minute", 1200)
	v.SetDefault("exchanges.coinbase.rest_url", "https://api.exchange.coinbase.com")
	v.SetDefault("exchanges.coinbase.requests_per_minute", 600)
	v.SetDefault("exchanges.kraken.rest_url", "https://api.kraken.com")
	v.SetDefault("exchanges.kraken.requests_per_minute", 60)

	// Monitor defaults
	v.SetDefault("monitor.pairs", []string{"ETH/USDT"})
	v.SetDefault("monitor.poll_interval", "10s")
	v.SetDefault("monitor.trade_amount", 1.0)
	v.SetDefault("monitor.min_spread", 0.0)

	// Fee defaults (taker fee 0.1% per leg, no fixed fees)
	v.SetDefault("fees.buy_fee_rate", 0.001)
	v.SetDefault("fees.sell_fee_rate", 0.001)
	v.SetDefault("fees.withdrawal_fee", 0.0)
	v.SetDefault("fees.gas_fee", 0.0)

	// Alerting defaults
	v.SetDefault("alerting.threshold", 1.0)
	v.SetDefault("alerting.sound_enabled", true)
	v.SetDefault("alerting.history_size", 50)

	// Subscription defaults
	v.SetDefault("subscription.paid", false)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "spreadwatch")
	v.SetDefault("telemetry.trace_provider", "console")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Exchanges.Enabled) < 2 {
		return fmt.Errorf("exchanges.enabled needs at least 2 venues, got %d", len(c.Exchanges.Enabled))
	}
	for _, name := range c.Exchanges.Enabled {
		switch name {
		case "binance", "coinbase", "kraken":
		default:
			return fmt.Errorf("unknown exchange %q in exchanges.enabled", name)
		}
	}
	if len(c.Monitor.Pairs) == 0 {
		return fmt.Errorf("monitor.pairs cannot be empty")
	}
	for _, p := range c.Monitor.Pairs {
		if !strings.Contains(p, "/") {
			return fmt.Errorf("monitor.pairs entry %q must be BASE/QUOTE", p)
		}
	}
	if c.Monitor.PollInterval <= 0 {
		return fmt.Errorf("monitor.poll_interval must be positive")
	}
	if c.Monitor.TradeAmount <= 0 || math.IsNaN(c.Monitor.TradeAmount) || math.IsInf(c.Monitor.TradeAmount, 0) {
		return fmt.Errorf("monitor.trade_amount must be a positive finite number")
	}
	for name, rate := range map[string]float64{
		"fees.buy_fee_rate":  c.Fees.BuyFeeRate,
		"fees.sell_fee_rate": c.Fees.SellFeeRate,
	} {
		if math.IsNaN(rate) || rate < 0 || rate >= 1 {
			return fmt.Errorf("%s must be in [0, 1), got %v", name, rate)
		}
	}
	if c.Fees.WithdrawalFee < 0 || c.Fees.GasFee < 0 {
		return fmt.Errorf("fixed fees cannot be negative")
	}
	if c.Alerting.HistorySize <= 0 {
		return fmt.Errorf("alerting.history_size must be positive")
	}
	return nil
}
