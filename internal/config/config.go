package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"kmfi/internal/scoring"
)

type Config struct {
	Env              string        `mapstructure:"env"`
	ListenAddr       string        `mapstructure:"listen_addr"`
	DatabaseURL      string        `mapstructure:"database_url"`
	RedisURL         string        `mapstructure:"redis_url"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	ScoreWorkers     int           `mapstructure:"score_workers"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
	MaxConns         int32         `mapstructure:"max_conns"`
	MaxHTTPConns     int           `mapstructure:"max_http_conns"`
	DefaultRegime    string        `mapstructure:"default_regime"`
	Totaling         string        `mapstructure:"totaling"`
	SeedFile         string        `mapstructure:"seed_file"`
	SeedCycle        string        `mapstructure:"seed_cycle"`
}

// ErrNoDatabase is returned alongside an otherwise usable config so callers
// can decide whether a missing database is fatal.
var ErrNoDatabase = errors.New("database_url not set")

func defaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", 15*time.Minute)
	v.SetDefault("score_workers", 0)
	v.SetDefault("batch_concurrency", 4)
	v.SetDefault("max_conns", 10)
	v.SetDefault("max_http_conns", 256)
	v.SetDefault("default_regime", string(scoring.RegimeIndex))
	v.SetDefault("totaling", string(scoring.PointsTotal))
	v.SetDefault("seed_file", "")
	v.SetDefault("seed_cycle", "current")
}

// Load reads defaults, an optional kmfi.yaml in the working directory and
// KMFI_-prefixed environment variables. DATABASE_URL and LISTEN_ADDR are
// honoured without the prefix as well.
func Load() (Config, error) {
	return load(viper.New(), []string{"."})
}

func load(v *viper.Viper, paths []string) (Config, error) {
	defaults(v)
	v.SetConfigName("kmfi")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("KMFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database_url", "KMFI_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("listen_addr", "KMFI_LISTEN_ADDR", "LISTEN_ADDR")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return cfg, ErrNoDatabase
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if _, err := scoring.WeightsFor(scoring.Regime(cfg.DefaultRegime)); err != nil {
		return err
	}
	if _, err := scoring.ParseTotaling(cfg.Totaling); err != nil {
		return err
	}
	if cfg.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be at least 1")
	}
	if cfg.ScoreWorkers < 0 {
		return fmt.Errorf("score_workers must not be negative")
	}
	if cfg.SeedFile != "" && cfg.SeedCycle == "" {
		return fmt.Errorf("seed_cycle is required with seed_file")
	}
	return nil
}

func (c Config) Production() bool { return c.Env == "production" }
