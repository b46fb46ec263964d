package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment override, e.g. PLANT_MONITOR_DB_PATH.
const envPrefix = "PLANT_MONITOR"

// Config is the typed view of configs/config.yml.
type Config struct {
	Port     string         `mapstructure:"port"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Store    StoreConfig    `mapstructure:"store"`
	Plants   PlantsConfig   `mapstructure:"plants"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path           string `mapstructure:"path"`
	ConnectRetries int    `mapstructure:"connect_retries"`
}

type ServerConfig struct {
	// WriteTimeout must exceed a full poll cycle, otherwise long runs are cut off.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// AnalysisConfig tunes the trigger/poll cycle.
type AnalysisConfig struct {
	TriggerPath  string        `mapstructure:"trigger_path"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// WorkerConfig describes the external analysis executable.
// The plant id and sensor node are appended to Args on every launch.
type WorkerConfig struct {
	Command string        `mapstructure:"command"`
	Args    []string      `mapstructure:"args"`
	Dir     string        `mapstructure:"dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerOpenFor  time.Duration `mapstructure:"breaker_open_for"`
}

type PlantsConfig struct {
	// SensorNodes restricts the nodes a plant may be bound to; empty allows any.
	SensorNodes []string `mapstructure:"sensor_nodes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("db.connect_retries", 5)
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("analysis.trigger_path", "ai_monitoring/trigger")
	v.SetDefault("analysis.poll_interval", "1s")
	v.SetDefault("analysis.max_attempts", 30)
	v.SetDefault("worker.command", "python3")
	v.SetDefault("worker.args", []string{"-u", "ai_monitoring/main.py"})
	v.SetDefault("worker.dir", "")
	v.SetDefault("worker.timeout", "0s")
	v.SetDefault("store.breaker_failures", 5)
	v.SetDefault("store.breaker_open_for", "10s")
	v.SetDefault("plants.sensor_nodes", []string{})
}

// Load reads config.yml from dir (if present), applies env overrides and defaults.
// A missing file is not an error; a malformed one is.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if dir == "" {
		dir = "configs"
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config in %q: %w", dir, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the trigger/poll cycle cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Analysis.TriggerPath) == "" {
		return errors.New("analysis.trigger_path must not be empty")
	}
	if c.Analysis.PollInterval <= 0 {
		return fmt.Errorf("analysis.poll_interval must be positive, got %s", c.Analysis.PollInterval)
	}
	if c.Analysis.MaxAttempts < 1 {
		return fmt.Errorf("analysis.max_attempts must be >= 1, got %d", c.Analysis.MaxAttempts)
	}
	return nil
}
