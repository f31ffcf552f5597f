// Package config loads service settings from .env, an optional YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFile is read when no explicit config path is given. It may be absent.
const DefaultFile = "configs/config.yaml"

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		ReadTimeout        time.Duration `mapstructure:"read_timeout"`
		WriteTimeout       time.Duration `mapstructure:"write_timeout"`
		IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
		ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	} `mapstructure:"server"`

	Database struct {
		URL              string        `mapstructure:"url"`
		MaxConns         int32         `mapstructure:"max_conns"`
		MinConns         int32         `mapstructure:"min_conns"`
		StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	} `mapstructure:"database"`

	Redis struct {
		Addr       string        `mapstructure:"addr"`
		Password   string        `mapstructure:"password"`
		DB         int           `mapstructure:"db"`
		CompanyTTL time.Duration `mapstructure:"company_ttl"`
	} `mapstructure:"redis"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	Invoice struct {
		NumberPrefix string `mapstructure:"number_prefix"`
		PhoneRegion  string `mapstructure:"phone_region"`
	} `mapstructure:"invoice"`
}

// UsesMemoryStore reports whether no database is configured.
func (c *Config) UsesMemoryStore() bool {
	return strings.TrimSpace(c.Database.URL) == ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.statement_timeout", 30*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.company_ttl", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("invoice.number_prefix", "AB")
	v.SetDefault("invoice.phone_region", "IN")
}

// Load reads configuration. An empty path falls back to DefaultFile, which is
// skipped silently when missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", "DATABASE_URL", "DB_URL"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return errors.New("database.min_conns exceeds database.max_conns")
	}
	if strings.TrimSpace(c.Invoice.NumberPrefix) == "" {
		return errors.New("invoice.number_prefix is required")
	}
	return nil
}
