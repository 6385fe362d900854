// Package config handles configuration for the server component,
// including defaults, environment, JSON overlay, and command-line flags.
package config

import "time"

// Mail providers selectable via MailProvider.
const (
	MailProviderLog     = "log"
	MailProviderMailgun = "mailgun"
	MailProviderSES     = "ses"
	MailProviderSMTP    = "smtp"
)

// Config holds runtime settings for the account server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDriver / DatabaseDSN: "postgres" (pgx) or "sqlite" and its DSN.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Empty means a random per-process key.
//   - AccessTokenValidityDuration: session token lifetime.
//   - VerificationTTL / VerificationPurgeInterval: verification code lifetime and cleanup period.
//   - MailProvider: one of log, mailgun, ses, smtp.
//   - MailOverrideRecipient: when set, every email goes to this address (sandbox domains).
//   - RedisAddr: when empty, account events are not published.
type Config struct {
	EndpointAddrGRPC            string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	VerificationTTL             time.Duration
	VerificationPurgeInterval   time.Duration
	LogLevel                    string

	MailProvider          string
	MailFrom              string
	MailOverrideRecipient string
	MailSendTimeout       time.Duration

	MailgunDomain  string
	MailgunAPIKey  string
	MailgunAPIBase string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	SESRegion       string
	SESAccessKey    string
	SESSecretKey    string
	SESBaseEndpoint string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EventsMaxLen  int64
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:eatery.db"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.VerificationTTL = 24 * time.Hour
	c.VerificationPurgeInterval = 1 * time.Hour
	c.LogLevel = "info"
	c.MailProvider = MailProviderLog
	c.MailSendTimeout = 15 * time.Second
	c.SMTPPort = 587
	c.SESRegion = "us-east-1"
	c.EventsMaxLen = 10000
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
