package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/eatery/internal/flagx"
	"github.com/joho/godotenv"
)

// loadEnvFile loads variables from a dotenv file into the process
// environment. Variables already set in the environment win.
//
// The file is the one given via -env; otherwise .env.<APP_ENV> is tried
// when APP_ENV is set and silently skipped if it does not exist. An
// explicitly requested file that cannot be read panics.
func loadEnvFile() {
	if file := flagx.EnvFileFlag(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
		return
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		return
	}
	if err := godotenv.Load(".env." + appEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays Config with environment variables. Unset variables
// leave the current value untouched; malformed numbers or durations panic.
//
// Recognized variables:
//
//	GRPC_ADDRESS, DB_DRIVER, DATABASE_DSN, PRIVATE_KEY, TOKEN_TTL,
//	VERIFICATION_TTL, VERIFICATION_PURGE_INTERVAL, LOG_LEVEL,
//	MAIL_PROVIDER, MAIL_FROM, MAIL_OVERRIDE_RECIPIENT, MAIL_SEND_TIMEOUT,
//	MAILGUN_DOMAIN, MAILGUN_API_KEY, MAILGUN_API_BASE,
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD,
//	SES_REGION, SES_ACCESS_KEY, SES_SECRET_KEY, SES_ENDPOINT,
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, EVENTS_MAX_LEN
func parseEnv(config *Config) {
	loadEnvFile()

	envString("GRPC_ADDRESS", &config.EndpointAddrGRPC)
	envString("DB_DRIVER", &config.DatabaseDriver)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("PRIVATE_KEY", &config.SecretKey)
	envDuration("TOKEN_TTL", &config.AccessTokenValidityDuration)
	envDuration("VERIFICATION_TTL", &config.VerificationTTL)
	envDuration("VERIFICATION_PURGE_INTERVAL", &config.VerificationPurgeInterval)
	envString("LOG_LEVEL", &config.LogLevel)

	envString("MAIL_PROVIDER", &config.MailProvider)
	envString("MAIL_FROM", &config.MailFrom)
	envString("MAIL_OVERRIDE_RECIPIENT", &config.MailOverrideRecipient)
	envDuration("MAIL_SEND_TIMEOUT", &config.MailSendTimeout)

	envString("MAILGUN_DOMAIN", &config.MailgunDomain)
	envString("MAILGUN_API_KEY", &config.MailgunAPIKey)
	envString("MAILGUN_API_BASE", &config.MailgunAPIBase)

	envString("SMTP_HOST", &config.SMTPHost)
	envInt("SMTP_PORT", &config.SMTPPort)
	envString("SMTP_USER", &config.SMTPUser)
	envString("SMTP_PASSWORD", &config.SMTPPassword)

	envString("SES_REGION", &config.SESRegion)
	envString("SES_ACCESS_KEY", &config.SESAccessKey)
	envString("SES_SECRET_KEY", &config.SESSecretKey)
	envString("SES_ENDPOINT", &config.SESBaseEndpoint)

	envString("REDIS_ADDR", &config.RedisAddr)
	envString("REDIS_PASSWORD", &config.RedisPassword)
	envInt("REDIS_DB", &config.RedisDB)

	if v, ok := os.LookupEnv("EVENTS_MAX_LEN"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.EventsMaxLen = n
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
