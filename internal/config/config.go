package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Password storage modes accepted by PASSWORD_MODE.
const (
	PasswordModeBcrypt    = "bcrypt"
	PasswordModePlaintext = "plaintext"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
)

// Config holds all runtime configuration values.  It is resolved once at
// startup and handed to the components that need it; nothing reads the
// environment after Load returns.
type Config struct {
	Env               string        `env:"APP_ENV" envDefault:"dev"`
	Port              string        `env:"PORT" envDefault:"5000"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	PasswordMode      string        `env:"PASSWORD_MODE" envDefault:"bcrypt"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"10"`
	ExposeStoreErrors bool          `env:"EXPOSE_STORE_ERRORS" envDefault:"false"`

	DB        DBConfig        `envPrefix:"DB_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Cache     CacheConfig     `envPrefix:"CACHE_"`
}

// DBConfig describes how to reach the relational store.  For the sqlite
// driver Name is a file path and the network fields are ignored.
type DBConfig struct {
	Driver                 string        `env:"DRIVER" envDefault:"mysql"`
	Host                   string        `env:"HOST"`
	Port                   string        `env:"PORT"`
	User                   string        `env:"USER"`
	Pass                   string        `env:"PASS"`
	Name                   string        `env:"NAME"`
	Encrypt                bool          `env:"ENCRYPT" envDefault:"true"`
	TrustServerCertificate bool          `env:"TRUST_SERVER_CERT" envDefault:"false"`
	StatementTimeout       time.Duration `env:"STATEMENT_TIMEOUT" envDefault:"5s"`
	ConnectTimeout         time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	MaxOpenConns           int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns           int           `env:"MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime        time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

// LogConfig selects the log level and output format ("text" or "json").
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load reads a .env file when one exists, then parses the environment into
// a Config.  Missing required values and unknown enum values are reported
// as errors instead of exiting so callers decide how to fail.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.RateLimit.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c Config) Validate() error {
	switch c.PasswordMode {
	case PasswordModeBcrypt, PasswordModePlaintext:
	default:
		return fmt.Errorf("invalid PASSWORD_MODE %q", c.PasswordMode)
	}
	if c.Port == "" {
		return errors.New("missing required env var: PORT")
	}
	return c.DB.Validate()
}

// Validate enforces the fields each driver needs.
func (d DBConfig) Validate() error {
	if d.StatementTimeout <= 0 {
		return fmt.Errorf("invalid DB_STATEMENT_TIMEOUT %s", d.StatementTimeout)
	}
	switch strings.ToLower(d.Driver) {
	case DriverSQLite:
		if d.Name == "" {
			return errors.New("missing required env var: DB_NAME")
		}
		return nil
	case DriverMySQL, DriverSQLServer:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", d.Driver)
	}
	var missing []string
	for key, v := range map[string]string{"DB_HOST": d.Host, "DB_USER": d.User, "DB_NAME": d.Name} {
		if v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DefaultPort returns the conventional port for the configured driver.
func (d DBConfig) DefaultPort() string {
	if d.Port != "" {
		return d.Port
	}
	if strings.ToLower(d.Driver) == DriverSQLServer {
		return "1433"
	}
	return "3306"
}
