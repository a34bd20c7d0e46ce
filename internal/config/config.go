package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	PhotoStorageDisk  = "disk"
	PhotoStorageMinio = "minio"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`

	// key value storage backing the user roster: redis | postgres | memory
	Storage     string `toml:"storage"`
	CacheSizeMB int    `toml:"cache_size_mb"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// sessions
	SessionTTLHours             int    `toml:"session_ttl_hours"`
	SessionCleanupSchedule      string `toml:"session_cleanup_schedule"`
	LoginRateLimitAllowedPerMin int    `toml:"login_rate_limit_allowed_per_min"`
	BcryptCost                  int    `toml:"bcrypt_cost"`

	// progress photos: disk | minio
	PhotoStorage  string `toml:"photo_storage"`
	PhotosPath    string `toml:"photos_path"`
	MaxPhotoBytes int64  `toml:"max_photo_bytes"`
	MinioEndpoint string `toml:"minio_endpoint"`
	MinioBucket   string `toml:"minio_bucket"`
	MinioUseSSL   bool   `toml:"minio_use_ssl"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

// Secrets are never stored in the TOML file, only read from the environment.
type Secrets struct {
	RedisPassword    string `env:"FITNESS_REDIS_PASS"`
	PostgresPassword string `env:"FITNESS_POSTGRES_PASS"`
	MinioAccessKey   string `env:"FITNESS_MINIO_ACCESS_KEY"`
	MinioSecretKey   string `env:"FITNESS_MINIO_SECRET_KEY"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
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
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found", env)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Storage == "" {
		c.Storage = StorageMemory
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.SessionCleanupSchedule == "" {
		c.SessionCleanupSchedule = "@every 8h"
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 14
	}
	if c.PhotoStorage == "" {
		c.PhotoStorage = PhotoStorageDisk
	}
	if c.MaxPhotoBytes == 0 {
		c.MaxPhotoBytes = 10 << 20
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StorageRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			errs = append(errs, errors.New("redis storage needs redis_host and redis_port"))
		}
	case StoragePostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			errs = append(errs, errors.New("postgres storage needs postgres_host, postgres_port and postgres_db_name"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage: %s", c.Storage))
	}

	switch c.PhotoStorage {
	case PhotoStorageDisk:
		if c.PhotosPath == "" {
			errs = append(errs, errors.New("disk photo storage needs photos_path"))
		}
	case PhotoStorageMinio:
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			errs = append(errs, errors.New("minio photo storage needs minio_endpoint and minio_bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown photo storage: %s", c.PhotoStorage))
	}

	if c.CacheSizeMB < 0 {
		errs = append(errs, errors.New("cache_size_mb must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func LoadSecrets() (Secrets, error) {
	secrets, err := env.ParseAs[Secrets]()
	if err != nil {
		return Secrets{}, fmt.Errorf("parse secrets from env: %w", err)
	}
	return secrets, nil
}

// LoadSecretsFrom is LoadSecrets with an explicit environment.
func LoadSecretsFrom(environment map[string]string) (Secrets, error) {
	var secrets Secrets
	if err := env.ParseWithOptions(&secrets, env.Options{
		Environment: environment,
	}); err != nil {
		return Secrets{}, fmt.Errorf("parse secrets: %w", err)
	}
	return secrets, nil
}
