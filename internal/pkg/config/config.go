package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	insecureSecret = "change-me"

	devOrigin     = "http://localhost:5173"
	devOriginNext = "http://localhost:5174"
)

type Config struct {
	Port      string `env:"PORT,      default=8000"`
	Env       string `env:"ENV,       default=development"`
	AppName   string `env:"APP_NAME,  default=ClientOps Hub API"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	APIPrefix string `env:"API_PREFIX, default=/api"`

	JWTSecret      string        `env:"JWT_SECRET,       default=change-me"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=24h"`

	// CORSOrigins is a comma-separated allow-list.
	CORSOrigins string `env:"CORS_ORIGINS, default=http://localhost:5173,http://localhost:5174"`

	// LoginRatePerMinute limits login attempts per client IP. 0 disables it.
	LoginRatePerMinute float64 `env:"LOGIN_RATE_PER_MINUTE, default=10"`

	SeedOnStart     bool          `env:"SEED_ON_START,    default=true"`
	SwaggerEnabled  bool          `env:"SWAGGER_ENABLED,  default=true"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED,  default=true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	// AuditStore selects where audit entries live: "sql" or "mongo".
	AuditStore string `env:"AUDIT_STORE, default=sql"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	// URL is the driver DSN. Empty means the local SQLite file.
	URL string `env:"DATABASE_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clientops"`
}

type RedisConfig struct {
	// Addr enables the user identity cache when set.
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	UserTTL  time.Duration `env:"USER_CACHE_TTL, default=5m"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.IsProduction() && c.JWTSecret == insecureSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of: sqlite postgres", c.Database.Driver))
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required for postgres"))
	}
	switch c.AuditStore {
	case "sql", "mongo":
	default:
		errs = append(errs, fmt.Errorf("AUDIT_STORE %q is not one of: sql mongo", c.AuditStore))
	}
	if c.LoginRatePerMinute < 0 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MINUTE must not be negative"))
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("API_PREFIX %q must start with /", c.APIPrefix))
	}
	return errors.Join(errs...)
}

// CORSAllowOrigins splits CORSOrigins. The two local dev-server ports are
// mirrored: listing either one allows both.
func (c *Config) CORSAllowOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	has := func(origin string) bool {
		for _, o := range origins {
			if o == origin {
				return true
			}
		}
		return false
	}
	if has(devOrigin) && !has(devOriginNext) {
		origins = append(origins, devOriginNext)
	}
	if has(devOriginNext) && !has(devOrigin) {
		origins = append(origins, devOrigin)
	}
	return origins
}
