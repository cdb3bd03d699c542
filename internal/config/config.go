// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the API server listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; used with JWT_PUBLIC_KEY for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim (e.g. "crowdguard-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "crowdguard-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "168h" = 7d).
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// FrontendURL is the dashboard origin used to build invitation accept/reject links.
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	// MailServiceURL is the email dispatch service base URL (e.g. http://localhost:8081).
	// Empty disables invitation email dispatch, which makes every invite fail closed.
	MailServiceURL string `mapstructure:"MAIL_SERVICE_URL"`
	// CORSAllowedOrigins is a comma-separated list of allowed browser origins.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint for traces/metrics; empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// Mailer-only: settings for cmd/mailer.
	// MailerAddr is the address the mail service listens on.
	MailerAddr string `mapstructure:"MAILER_ADDR"`
	// SMTPHost is the outbound SMTP host (e.g. smtp.gmail.com).
	SMTPHost string `mapstructure:"SMTP_HOST"`
	// SMTPPort is the outbound SMTP port (default 587, STARTTLS).
	SMTPPort int `mapstructure:"SMTP_PORT"`
	// SMTPUser is the SMTP auth user and default From address.
	SMTPUser string `mapstructure:"SMTP_USER"`
	// SMTPPass is the SMTP auth password.
	SMTPPass string `mapstructure:"SMTP_PASS"`
	// MailFrom is the From header; defaults to "CrowdGuard <SMTP_USER>".
	MailFrom string `mapstructure:"MAIL_FROM"`

	// Worker-only: settings for cmd/worker.
	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// DetectionsTopic is the Kafka topic carrying crowd-event detections.
	DetectionsTopic string `mapstructure:"DETECTIONS_TOPIC"`
	// KafkaGroupID is the consumer group ID for the detection worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ISSUER", "crowdguard-auth")
	v.SetDefault("JWT_AUDIENCE", "crowdguard-api")
	v.SetDefault("JWT_ACCESS_TTL", "168h") // 7d, matches the dashboard session length
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("MAIL_SERVICE_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("MAILER_ADDR", ":8081")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("DETECTIONS_TOPIC", "crowdguard-detections")
	v.SetDefault("KAFKA_GROUP_ID", "crowdguard-alert-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// CORSOrigins returns the allowed browser origins from the comma-separated config.
func (c *Config) CORSOrigins() []string {
	return splitCSV(c.CORSAllowedOrigins)
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used by cmd/worker to decide if ingest is configured and to create the reader.
func (c *Config) KafkaBrokersList() []string {
	if c == nil {
		return nil
	}
	return splitCSV(c.KafkaBrokers)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
