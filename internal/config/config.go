package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultSessionMutationAttempts = 5
	defaultCatalogCacheSizeMB      = 16
	defaultLoginRateLimitPerMin    = 15
)

type Account struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
	DisplayName  string `toml:"display_name"`
}

type Config struct {
	Environment string `toml:"environment"`
	Host        string
	Port        int
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// migrations
	MigrationsEnabled bool   `toml:"migrations_enabled"`
	MigrationsPath    string `toml:"migrations_path"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// http
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	CorsAllowedOrigins          []string `toml:"cors_allowed_origins"`
	// domain
	CatalogCacheSizeMB      int       `toml:"catalog_cache_size_mb"`
	SessionMutationAttempts int       `toml:"session_mutation_attempts"`
	Accounts                []Account `toml:"accounts"`
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
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SessionMutationAttempts <= 0 {
		c.SessionMutationAttempts = defaultSessionMutationAttempts
	}
	if c.CatalogCacheSizeMB <= 0 {
		c.CatalogCacheSizeMB = defaultCatalogCacheSizeMB
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = defaultLoginRateLimitPerMin
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, errors.New("port must be positive"))
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres host and db name required"))
	}
	if c.RedisHost == "" {
		errs = append(errs, errors.New("redis host required"))
	}
	for i, a := range c.Accounts {
		if a.Username == "" || a.PasswordHash == "" {
			errs = append(errs, fmt.Errorf("accounts[%d]: username and password hash required", i))
		}
	}
	return errors.Join(errs...)
}
