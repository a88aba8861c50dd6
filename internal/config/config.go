package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// training
	Timezone              string `toml:"timezone"`
	DetailCacheSizeMB     int    `toml:"detail_cache_size_mb"`
	DetailCacheTTLSeconds int    `toml:"detail_cache_ttl_seconds"`
	EngineRegistrySize    int    `toml:"engine_registry_size"`
	EngineIdleTTLMinutes  int    `toml:"engine_idle_ttl_minutes"`
	LoginRateLimitPerMin  int    `toml:"login_rate_limit_per_min"`
	AuthSessionTTLHours   int    `toml:"auth_session_ttl_hours"`
	MCPEnabled            bool   `toml:"mcp_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(env, string(content))
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env %s not found", env)
	}

	cfg.setDefaults()
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.DetailCacheSizeMB <= 0 {
		c.DetailCacheSizeMB = 10
	}
	if c.DetailCacheTTLSeconds <= 0 {
		c.DetailCacheTTLSeconds = int((6 * time.Hour).Seconds())
	}
	if c.EngineRegistrySize <= 0 {
		c.EngineRegistrySize = 256
	}
	if c.EngineIdleTTLMinutes <= 0 {
		c.EngineIdleTTLMinutes = 30
	}
	if c.LoginRateLimitPerMin <= 0 {
		c.LoginRateLimitPerMin = 10
	}
	if c.AuthSessionTTLHours <= 0 {
		c.AuthSessionTTLHours = 24 * 7
	}
}

// Location is the time zone defining the local training day.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) DetailCacheTTL() time.Duration {
	return time.Duration(c.DetailCacheTTLSeconds) * time.Second
}

func (c *Config) EngineIdleTTL() time.Duration {
	return time.Duration(c.EngineIdleTTLMinutes) * time.Minute
}

func (c *Config) AuthSessionTTL() time.Duration {
	return time.Duration(c.AuthSessionTTLHours) * time.Hour
}
