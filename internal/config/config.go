package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Cron     CronConfig     `mapstructure:"cron"`
	Hypixel  HypixelConfig  `mapstructure:"hypixel"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Store    StoreConfig    `mapstructure:"store"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	History  HistoryConfig  `mapstructure:"history"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

// DBConfig enables the optional price-history archive; an empty DSN leaves
// the service file-backed only.
type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type CronConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ActiveSync string `mapstructure:"active_sync"`
	SoldSync   string `mapstructure:"sold_sync"`
	BazaarSync string `mapstructure:"bazaar_sync"`
}

type HypixelConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	MaxPages int           `mapstructure:"max_pages"`
}

type EngineConfig struct {
	RetentionWindow time.Duration `mapstructure:"retention_window"`
	PriceIncrement  float64       `mapstructure:"price_increment"`
	ValueCeiling    float64       `mapstructure:"value_ceiling"`
	TolerancePct    float64       `mapstructure:"tolerance_pct"`
	ComboTierCap    int           `mapstructure:"combo_tier_cap"`
}

type StoreConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type DeliveryConfig struct {
	AuctionURL string        `mapstructure:"auction_url"`
	BazaarURL  string        `mapstructure:"bazaar_url"`
	Key        string        `mapstructure:"key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type HistoryConfig struct {
	TrackedItems []string `mapstructure:"tracked_items"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HSB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.active_sync", "@every 5m")
	v.SetDefault("cron.sold_sync", "@every 10m")
	v.SetDefault("cron.bazaar_sync", "@every 15m")
	v.SetDefault("hypixel.base_url", "https://api.hypixel.net")
	v.SetDefault("hypixel.timeout", "15s")
	v.SetDefault("hypixel.retries", 3)
	v.SetDefault("hypixel.max_pages", 120)
	v.SetDefault("engine.retention_window", "168h")
	v.SetDefault("engine.price_increment", 1000)
	v.SetDefault("engine.value_ceiling", 100000000)
	v.SetDefault("engine.tolerance_pct", 0.05)
	v.SetDefault("engine.combo_tier_cap", 5)
	v.SetDefault("store.data_dir", "data")
	v.SetDefault("delivery.auction_url", "")
	v.SetDefault("delivery.bazaar_url", "")
	v.SetDefault("delivery.key", "")
	v.SetDefault("delivery.timeout", "15s")
	v.SetDefault("history.tracked_items", []string{})

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr == nil {
				// A present but unparsable config file is an operator
				// error; a missing one falls back to defaults + env.
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
