package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Evidence EvidenceConfig
}

type AppConfig struct {
	AppName     string `envconfig:"APP_NAME" required:"true"`
	Environment string `envconfig:"APP_ENV" required:"true"`
	HTTPPort    string `envconfig:"HTTP_PORT" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

type DatabaseConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" default:"turf_hire"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`

	ConnectTimeout        time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	PoolMaxConns          int32         `envconfig:"DB_POOL_MAX_CONNS"`
	PoolMinConns          int32         `envconfig:"DB_POOL_MIN_CONNS"`
	PoolMaxConnLifetime   time.Duration `envconfig:"DB_POOL_MAX_CONN_LIFETIME"`
	PoolMaxConnIdleTime   time.Duration `envconfig:"DB_POOL_MAX_CONN_IDLE_TIME"`
	PoolHealthCheckPeriod time.Duration `envconfig:"DB_POOL_HEALTH_CHECK_PERIOD"`
	SlowQueryThreshold    time.Duration `envconfig:"DB_SLOW_QUERY_THRESHOLD" default:"500ms"`

	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	Seed        bool `envconfig:"DB_SEED" default:"false"`
}

type JWTConfig struct {
	AccessSecret     string        `envconfig:"JWT_ACCESS_SECRET" required:"true"`
	RefreshSecret    string        `envconfig:"JWT_REFRESH_SECRET" required:"true"`
	AccessExpiresIn  time.Duration `envconfig:"JWT_ACCESS_EXPIRES_IN" default:"15m"`
	RefreshExpiresIn time.Duration `envconfig:"JWT_REFRESH_EXPIRES_IN" default:"168h"`
	Issuer           string        `envconfig:"JWT_ISSUER" default:"turf-hire"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"true"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"REDIS_TTL" default:"10m"`
}

// EvidenceConfig selects the blob backend for skill evidence.
// Backend is one of "memory", "s3" or "gcs".
type EvidenceConfig struct {
	Backend         string        `envconfig:"EVIDENCE_BACKEND" default:"memory"`
	Bucket          string        `envconfig:"EVIDENCE_BUCKET"`
	Prefix          string        `envconfig:"EVIDENCE_PREFIX"`
	Region          string        `envconfig:"EVIDENCE_REGION"`
	CredentialsFile string        `envconfig:"EVIDENCE_CREDENTIALS_FILE"`
	URLTTL          time.Duration `envconfig:"EVIDENCE_URL_TTL" default:"15m"`
	Timeout         time.Duration `envconfig:"EVIDENCE_TIMEOUT" default:"60s"`
	MaxBytes        int64         `envconfig:"EVIDENCE_MAX_BYTES" default:"10485760"`
}

var errInvalidConfig = errors.New("invalid configuration")

func Load() (Config, error) {
	cfg := Config{}

	sections := []any{&cfg.App, &cfg.Database, &cfg.JWT, &cfg.Redis, &cfg.Evidence}

	var problems []string
	for _, s := range sections {
		if err := envconfig.Process("", s); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, "; "))
	}

	// envconfig accepts a variable that is set but empty; treat blanks as missing.
	var missing []string
	blank := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	blank("APP_NAME", cfg.App.AppName)
	blank("APP_ENV", cfg.App.Environment)
	blank("HTTP_PORT", cfg.App.HTTPPort)
	blank("JWT_ACCESS_SECRET", cfg.JWT.AccessSecret)
	blank("JWT_REFRESH_SECRET", cfg.JWT.RefreshSecret)
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: missing required environment variables: %s", errInvalidConfig, strings.Join(missing, ", "))
	}

	cfg.App.HTTPPort = strings.TrimSpace(cfg.App.HTTPPort)
	cfg.Evidence.Backend = strings.ToLower(strings.TrimSpace(cfg.Evidence.Backend))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Evidence.Backend {
	case "memory":
	case "s3", "gcs":
		if strings.TrimSpace(c.Evidence.Bucket) == "" {
			return fmt.Errorf("%w: EVIDENCE_BUCKET is required for backend %q", errInvalidConfig, c.Evidence.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown EVIDENCE_BACKEND %q", errInvalidConfig, c.Evidence.Backend)
	}
	if c.Evidence.MaxBytes <= 0 {
		return fmt.Errorf("%w: EVIDENCE_MAX_BYTES must be positive", errInvalidConfig)
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	env := strings.ToLower(strings.TrimSpace(c.App.Environment))
	return env == "development" || env == "dev" || env == "local"
}
