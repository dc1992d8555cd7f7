// Package config loads pokedex settings from an optional YAML file,
// POKEDEX_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/alopesmendes/PokedexAI/pkg/client"
	"github.com/alopesmendes/PokedexAI/pkg/logging"
	"github.com/alopesmendes/PokedexAI/pkg/pagination"
)

// EnvPrefix prefixes every environment override, e.g. POKEDEX_API_BASE_URL.
const EnvPrefix = "POKEDEX"

// Config holds all configuration for the application.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	List   ListConfig   `mapstructure:"list"`
}

// APIConfig configures the PokeAPI client.
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`

	// MaxConcurrency caps per-page form fetches; 0 is unbounded.
	MaxConcurrency int `mapstructure:"max_concurrency"`

	// ItemTimeout bounds each form fetch of a page, retries included; 0 disables it.
	ItemTimeout time.Duration `mapstructure:"item_timeout"`
}

// RedisConfig holds Redis connection details. An empty Addr disables
// caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit   int      `mapstructure:"rate_limit"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type ListConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	def := client.DefaultConfig()

	v.SetDefault("api.base_url", def.BaseURL)
	v.SetDefault("api.user_agent", def.UserAgent)
	v.SetDefault("api.timeout", def.Timeout)
	v.SetDefault("api.max_retries", def.MaxRetries)
	v.SetDefault("api.initial_backoff", def.InitialBackoff)
	v.SetDefault("api.max_backoff", def.MaxBackoff)
	v.SetDefault("api.requests_per_second", def.RequestsPerSecond)
	v.SetDefault("api.max_concurrency", 0)
	v.SetDefault("api.item_timeout", time.Duration(0))

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", string(logging.LevelInfo))
	v.SetDefault("log.pretty", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("list.page_size", 20)
}

// Load reads path (if not empty) and environment overrides into v and
// decodes the result. Flags must be bound to v before calling Load.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the client cannot repair on its own.
func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be > 0 (got %s)", c.API.Timeout))
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api.max_retries must be >= 0 (got %d)", c.API.MaxRetries))
	}
	if c.API.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("api.max_concurrency must be >= 0 (got %d)", c.API.MaxConcurrency))
	}
	if c.API.ItemTimeout < 0 {
		errs = append(errs, fmt.Errorf("api.item_timeout must be >= 0 (got %s)", c.API.ItemTimeout))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must be >= 0 (got %d)", c.Server.RateLimit))
	}
	if c.List.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("list.page_size must be > 0 (got %d)", c.List.PageSize))
	}
	return errors.Join(errs...)
}

// ClientConfig builds the client configuration. rdb may be nil.
func (c *Config) ClientConfig(rdb *redis.Client) client.Config {
	return client.Config{
		BaseURL:           c.API.BaseURL,
		Redis:             rdb,
		UserAgent:         c.API.UserAgent,
		Timeout:           c.API.Timeout,
		RequestsPerSecond: c.API.RequestsPerSecond,
		MaxRetries:        c.API.MaxRetries,
		InitialBackoff:    c.API.InitialBackoff,
		MaxBackoff:        c.API.MaxBackoff,
	}
}

// FanOut returns the per-page fan-out settings.
func (c *Config) FanOut() pagination.Config {
	cfg := pagination.DefaultConfig()
	cfg.MaxConcurrency = c.API.MaxConcurrency
	cfg.Timeout = c.API.ItemTimeout
	return cfg
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// RedisOptions returns connection options, or nil when Redis is disabled.
func (c *Config) RedisOptions() *redis.Options {
	if c.Redis.Addr == "" {
		return nil
	}
	return &redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}
