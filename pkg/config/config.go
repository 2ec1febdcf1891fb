// Package config loads every runtime setting from DEPOTVENTE_* environment
// variables through envconfig. The API and the CLI load separate structs so
// depotctl runs without server secrets.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

const (
	EnvPrefix = "DEPOTVENTE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Upload        UploadConfig
	CORS          CORSConfig
	Bootstrap     BootstrapConfig
}

// Load parses the environment, resolves derived values (DSN, driver) and
// reports every invalid setting at once.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs error
	errs = multierr.Append(errs, c.DB.resolveDSN())
	if c.Redis.URL == "" && c.Redis.Address == "" {
		errs = multierr.Append(errs, errors.New("DEPOTVENTE_REDIS_URL or DEPOTVENTE_REDIS_ADDR is required"))
	}
	if c.JWT.AccessTTL() <= 0 {
		errs = multierr.Append(errs, errors.New("DEPOTVENTE_JWT_EXPIRATION_MINUTES must be positive"))
	}
	switch strings.ToLower(c.App.LogFormat) {
	case "json", "console":
	default:
		errs = multierr.Append(errs, fmt.Errorf("DEPOTVENTE_LOG_FORMAT %q: want json or console", c.App.LogFormat))
	}
	return errs
}

type AppConfig struct {
	Env          string `envconfig:"DEPOTVENTE_APP_ENV" required:"true"`
	Port         string `envconfig:"DEPOTVENTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DEPOTVENTE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"DEPOTVENTE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"DEPOTVENTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool { return a.is(AppEnvDev, "development") }

func (a AppConfig) IsProd() bool { return a.is(AppEnvProd, "production") }

func (a AppConfig) is(names ...string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(a.Env), n) {
			return true
		}
	}
	return false
}

type RedisConfig struct {
	URL          string        `envconfig:"DEPOTVENTE_REDIS_URL"`
	Address      string        `envconfig:"DEPOTVENTE_REDIS_ADDR"`
	Password     string        `envconfig:"DEPOTVENTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEPOTVENTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEPOTVENTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEPOTVENTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEPOTVENTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEPOTVENTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEPOTVENTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DEPOTVENTE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DEPOTVENTE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DEPOTVENTE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AccessTTL is zero when the expiration is unset or negative.
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(max(j.ExpirationMinutes, 0)) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DEPOTVENTE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DEPOTVENTE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DEPOTVENTE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DEPOTVENTE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DEPOTVENTE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DEPOTVENTE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DEPOTVENTE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DEPOTVENTE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DEPOTVENTE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DEPOTVENTE_AUTO_MIGRATE" default:"false"`
	Metrics     bool `envconfig:"DEPOTVENTE_METRICS_ENABLED" default:"true"`
}

type UploadConfig struct {
	MaxCSVMB int `envconfig:"DEPOTVENTE_MAX_CSV_MB" default:"5"`
}

// MaxCSVBytes falls back to 5 MiB when unset.
func (u UploadConfig) MaxCSVBytes() int64 {
	if u.MaxCSVMB <= 0 {
		return 5 << 20
	}
	return int64(u.MaxCSVMB) << 20
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DEPOTVENTE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// BootstrapConfig seeds the first admin account on an empty database.
type BootstrapConfig struct {
	AdminEmail    string `envconfig:"DEPOTVENTE_BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `envconfig:"DEPOTVENTE_BOOTSTRAP_ADMIN_PASSWORD"`
	AdminUsername string `envconfig:"DEPOTVENTE_BOOTSTRAP_ADMIN_USERNAME" default:"admin"`
}

func (b BootstrapConfig) Enabled() bool {
	return strings.TrimSpace(b.AdminEmail) != "" && b.AdminPassword != ""
}
