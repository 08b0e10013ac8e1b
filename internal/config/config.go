package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by Load
const EnvPrefix = "BAMBOO_"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"db"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Mail      MailConfig      `koanf:"mail"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Broadcast BroadcastConfig `koanf:"broadcast"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required,numeric"`
	Env            string        `koanf:"env" validate:"oneof=development production test"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"gte=0"`
	AllowedOrigins []string      `koanf:"allowed_origins" validate:"min=1,dive,required"`
	// BaseURL is the address of the web frontend, used in mails
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `koanf:"host" validate:"required"`
	Port      string `koanf:"port" validate:"required,numeric"`
	Namespace string `koanf:"namespace" validate:"required"`
	Database  string `koanf:"database" validate:"required"`
	User      string `koanf:"user" validate:"required"`
	Password  string `koanf:"password" validate:"required"`
}

// AuthConfig holds login and token settings
type AuthConfig struct {
	TokenTTL     time.Duration `koanf:"token_ttl" validate:"gt=0"`
	TwoFactorTTL time.Duration `koanf:"two_factor_ttl" validate:"gt=0"`
	CookieName   string        `koanf:"cookie_name" validate:"required"`
	CookieSecure bool          `koanf:"cookie_secure"`
	// AdminAPIKey protects the grove admin endpoints. Empty disables them.
	AdminAPIKey string `koanf:"admin_api_key" validate:"omitempty,min=32"`
}

// RateLimitConfig throttles the login routes per client
type RateLimitConfig struct {
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"gt=0"`
	Burst             int `koanf:"burst" validate:"gt=0"`
}

// MailConfig holds outgoing mail settings
type MailConfig struct {
	// APIKey is the Resend API key. Without it mails are only logged.
	APIKey         string `koanf:"api_key"`
	From           string `koanf:"from" validate:"required"`
	SupportAddress string `koanf:"support_address" validate:"required,email"`
	// RedisAddress enables the queued delivery through asynq
	RedisAddress string `koanf:"redis_address" validate:"omitempty,hostname_port"`
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Endpoint    string  `koanf:"endpoint" validate:"omitempty,url"`
	ServiceName string  `koanf:"service_name" validate:"required"`
	SampleRatio float64 `koanf:"sample_ratio" validate:"gte=0,lte=1"`
}

// BroadcastConfig holds server sent event settings
type BroadcastConfig struct {
	PingInterval time.Duration `koanf:"ping_interval" validate:"gt=0"`
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
			BaseURL:        "http://localhost:3000",
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "bambushain",
			Database:  "main",
			User:      "root",
			Password:  "root",
		},
		Auth: AuthConfig{
			TokenTTL:     30 * 24 * time.Hour,
			TwoFactorTTL: 10 * time.Minute,
			CookieName:   "bamboo-auth",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 10,
			Burst:             5,
		},
		Mail: MailConfig{
			From:           "Bambushain <noreply@bambushain.app>",
			SupportAddress: "support@bambushain.app",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "bambushain",
			SampleRatio: 1,
		},
		Broadcast: BroadcastConfig{
			PingInterval: 10 * time.Second,
		},
	}
}

// envKey maps BAMBOO_SERVER_READ_TIMEOUT to server.read_timeout
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	group, field, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return group + "." + field
}

// Load reads the defaults and overlays BAMBOO_ environment variables.
// A .env file in the working directory is loaded first.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and cross-field rules. It returns all
// failures joined, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Errorf("%s failed on %q", envName(fe.Namespace()), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if c.IsProduction() {
		if !c.Auth.CookieSecure {
			errs = append(errs, errors.New("BAMBOO_AUTH_COOKIE_SECURE must be true in production"))
		}
		if c.Mail.APIKey == "" {
			errs = append(errs, errors.New("BAMBOO_MAIL_API_KEY is required in production"))
		}
		if c.Database.Password == "root" {
			errs = append(errs, errors.New("BAMBOO_DB_PASSWORD must not be the default in production"))
		}
	}

	if c.Auth.TwoFactorTTL >= c.Auth.TokenTTL {
		errs = append(errs, errors.New("BAMBOO_AUTH_TWO_FACTOR_TTL must be shorter than BAMBOO_AUTH_TOKEN_TTL"))
	}

	return errors.Join(errs...)
}

var groupNames = map[string]string{
	"Server":    "SERVER",
	"Database":  "DB",
	"Auth":      "AUTH",
	"RateLimit": "RATELIMIT",
	"Mail":      "MAIL",
	"Telemetry": "TELEMETRY",
	"Broadcast": "BROADCAST",
}

var fieldNames = map[string]string{
	"Port": "PORT", "Env": "ENV", "ReadTimeout": "READ_TIMEOUT", "WriteTimeout": "WRITE_TIMEOUT",
	"AllowedOrigins": "ALLOWED_ORIGINS", "BaseURL": "BASE_URL",
	"Host": "HOST", "Namespace": "NAMESPACE", "Database": "DATABASE", "User": "USER", "Password": "PASSWORD",
	"TokenTTL": "TOKEN_TTL", "TwoFactorTTL": "TWO_FACTOR_TTL", "CookieName": "COOKIE_NAME",
	"CookieSecure": "COOKIE_SECURE", "AdminAPIKey": "ADMIN_API_KEY",
	"RequestsPerMinute": "REQUESTS_PER_MINUTE", "Burst": "BURST",
	"APIKey": "API_KEY", "From": "FROM", "SupportAddress": "SUPPORT_ADDRESS", "RedisAddress": "REDIS_ADDRESS",
	"Endpoint": "ENDPOINT", "ServiceName": "SERVICE_NAME", "SampleRatio": "SAMPLE_RATIO",
	"PingInterval": "PING_INTERVAL",
}

// envName turns "Config.Server.Port" into BAMBOO_SERVER_PORT
func envName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 3 {
		return namespace
	}
	field := parts[2]
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	return EnvPrefix + groupNames[parts[1]] + "_" + fieldNames[field]
}
