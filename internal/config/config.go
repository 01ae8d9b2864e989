package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Signals SignalsConfig `mapstructure:"signals"`
	Ticker  TickerConfig  `mapstructure:"ticker"`
	Trading TradingConfig `mapstructure:"trading"`
	Rate    RateConfig    `mapstructure:"rate"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AuthConfig struct {
	JWTSecret       string          `mapstructure:"jwt_secret"`
	TokenTTLMinutes int             `mapstructure:"token_ttl_minutes"`
	IngestAPIKey    string          `mapstructure:"ingest_api_key"`
	Accounts        []AccountConfig `mapstructure:"accounts"`
}

// AccountConfig seeds an account at startup (plaintext in config, hashed on load).
type AccountConfig struct {
	ID       string `mapstructure:"id"`
	Password string `mapstructure:"password"`
	Broker   string `mapstructure:"broker"`
}

type SignalsConfig struct {
	MaxStored     int   `mapstructure:"max_stored"`     // bounded sequence, FIFO eviction
	ReadWindowMs  int64 `mapstructure:"read_window_ms"` // recency filter applied at read time
	SnapshotCount int   `mapstructure:"snapshot_count"` // signals sent in the init envelope
}

type TickerConfig struct {
	IntervalMs int     `mapstructure:"interval_ms"`
	MaxJitter  float64 `mapstructure:"max_jitter"` // symmetric price perturbation bound
}

type TradingConfig struct {
	ContractMultiplier float64 `mapstructure:"contract_multiplier"`
	EntryPriceLong     float64 `mapstructure:"entry_price_long"` // placeholder fills, no real feed
	EntryPriceShort    float64 `mapstructure:"entry_price_short"`
}

type RateConfig struct {
	QPS   float64 `mapstructure:"qps"`   // 每秒查询数
	Burst int     `mapstructure:"burst"` // 突发桶大小
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	// Environment variables support
	// e.g. SIGNALGATE_AUTH_JWT_SECRET
	viper.SetEnvPrefix("signalgate")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	viper.SetDefault("auth.token_ttl_minutes", 1440)
	viper.SetDefault("auth.ingest_api_key", "")
	viper.SetDefault("signals.max_stored", 50)
	viper.SetDefault("signals.read_window_ms", 3600000)
	viper.SetDefault("signals.snapshot_count", 10)
	viper.SetDefault("ticker.interval_ms", 2000)
	viper.SetDefault("ticker.max_jitter", 1.0)
	viper.SetDefault("trading.contract_multiplier", 100)
	viper.SetDefault("trading.entry_price_long", 3893.45)
	viper.SetDefault("trading.entry_price_short", 3893.20)
	viper.SetDefault("rate.qps", 10)
	viper.SetDefault("rate.burst", 20)
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
