package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environments recognised by ENV_STATE.
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"
)

// DevSecret is the token secret used when TOKEN_SECRET is not set.
const DevSecret = "devsecret"

// Config contains server configuration parameters.
type Config struct {
	LogLevel  int       `env:"LOG_LEVEL" envDefault:"0"`
	Env       string    `env:"ENV_STATE" envDefault:"dev"`
	GRPC      GRPC      `envPrefix:"GRPC_"`
	Database  Database  `envPrefix:"DATABASE_"`
	KDF       KDF       `envPrefix:"KDF_"`
	Token     Token     `envPrefix:"TOKEN_"`
	SMTP      SMTP      `envPrefix:"SMTP_"`
	Telemetry Telemetry `envPrefix:"OTEL_"`
}

// KDF contains Argon2id parameters for password hashing.
type KDF struct {
	Time   uint32 `env:"TIME" envDefault:"1"`
	MemKiB uint32 `env:"MEM" envDefault:"65536"`
	Par    uint8  `env:"PAR" envDefault:"4"`
}

// GRPC contains gRPC server parameters.
type GRPC struct {
	Port               string `env:"PORT" envDefault:"50051"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters. An empty DSN keeps
// users in memory, which is only allowed outside prod.
type Database struct {
	DSN string `env:"DSN"`
}

// Token contains access token parameters.
type Token struct {
	Secret     string        `env:"SECRET" envDefault:"devsecret"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	ResetTTL   time.Duration `env:"RESET_TTL" envDefault:"15m"`
}

// SMTP contains outgoing mail parameters. An empty Host disables delivery
// and mails are only logged.
type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"no-reply@localhost"`
}

// Telemetry contains tracing parameters. An empty Endpoint disables tracing.
type Telemetry struct {
	Endpoint    string `env:"ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"account-server"`
}

// NewConfig loads configuration from environment variables and validates it.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks invariants that env tags cannot express.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvTest, EnvProd:
	default:
		return fmt.Errorf("unknown ENV_STATE %q", c.Env)
	}

	if c.Database.DSN == "" && c.Env == EnvProd {
		return errors.New("database dsn must be set in prod")
	}
	if c.Token.Secret == "" {
		return errors.New("token secret is empty")
	}
	if c.Token.Secret == DevSecret && c.Env == EnvProd {
		return errors.New("token secret must be set in prod")
	}
	if err := validateTTL("session", c.Token.SessionTTL); err != nil {
		return err
	}
	if err := validateTTL("reset", c.Token.ResetTTL); err != nil {
		return err
	}
	if c.KDF.Time == 0 || c.KDF.MemKiB == 0 || c.KDF.Par == 0 {
		return errors.New("kdf parameters must be positive")
	}

	return nil
}

// ExposeResetToken reports whether reset tokens are returned to the caller
// instead of being mailed. Only the test environment does this.
func (c *Config) ExposeResetToken() bool {
	return c.Env == EnvTest
}

func validateTTL(name string, ttl time.Duration) error {
	if ttl <= 0 || ttl%time.Second != 0 {
		return fmt.Errorf("%s ttl must be a positive whole number of seconds, got %s", name, ttl)
	}
	return nil
}
