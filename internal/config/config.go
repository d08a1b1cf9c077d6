// Package config loads the vantage YAML configuration file and applies
// environment variable overrides.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for vantage.
type Config struct {
	Storage    Storage          `yaml:"storage"`
	Alpaca     Alpaca           `yaml:"alpaca"`
	Logging    Logging          `yaml:"logging"`
	Fetch      Fetch            `yaml:"fetch"`
	Backtest   Backtest         `yaml:"backtest"`
	Strategies StrategiesConfig `yaml:"strategies"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
	Feed      string `yaml:"feed"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Fetch controls data acquisition behaviour.
type Fetch struct {
	RateLimitPerMin int `yaml:"rate_limit_per_min"`
	RetryAttempts   int `yaml:"retry_attempts"`
}

// Backtest holds the simulation parameters.
type Backtest struct {
	InitialEquity   float64 `yaml:"initial_equity"`
	TransactionCost float64 `yaml:"transaction_cost_fraction"`
	EntryFill       string  `yaml:"entry_fill"` // same_bar_close or next_bar_open
	PeriodsPerYear  int     `yaml:"periods_per_year"`
	MaxWorkers      int     `yaml:"max_workers"` // parameter-sweep parallelism
}

// StrategiesConfig holds the per-rule parameter defaults.
type StrategiesConfig struct {
	RSIReversion RSIReversionConfig `yaml:"rsi_reversion"`
	SMACross     SMACrossConfig     `yaml:"sma_cross"`
	// VolatilityWindow is the rolling window for the volatility indicator
	// reported alongside the backtest.
	VolatilityWindow int `yaml:"volatility_window"`
}

// RSIReversionConfig parameterizes the RSI mean-reversion rule.
type RSIReversionConfig struct {
	Period            int     `yaml:"rsi_period"`
	BuyThreshold      float64 `yaml:"rsi_buy_threshold"`
	SellThreshold     float64 `yaml:"rsi_sell_threshold"`
	TrendFilterPeriod int     `yaml:"trend_filter_period"`
}

// SMACrossConfig parameterizes the moving-average crossover rule.
type SMACrossConfig struct {
	FastPeriod int `yaml:"fast_ma_period"`
	SlowPeriod int `yaml:"slow_ma_period"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Storage: Storage{
			DataDir:    "data",
			SQLitePath: "data/vantage.db",
		},
		Logging: Logging{Level: "info", Format: "json"},
		Fetch: Fetch{
			RateLimitPerMin: 200,
			RetryAttempts:   3,
		},
		Backtest: Backtest{
			InitialEquity: 1.0,
			EntryFill:     "same_bar_close",
			MaxWorkers:    4,
		},
		Strategies: StrategiesConfig{
			RSIReversion: RSIReversionConfig{
				Period:            14,
				BuyThreshold:      30,
				SellThreshold:     70,
				TrendFilterPeriod: 50,
			},
			SMACross: SMACrossConfig{
				FastPeriod: 20,
				SlowPeriod: 50,
			},
			VolatilityWindow: 20,
		},
	}
}

// Load reads the YAML configuration file at the given path, parses it over
// the defaults, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Canonical Alpaca SDK env vars take priority over the ALPACA_* aliases.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
