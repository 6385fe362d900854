package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/eatery/internal/flagx"
	"github.com/dmitrijs2005/eatery/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. Fields absent from the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDriver              string         `json:"database_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	VerificationTTL             timex.Duration `json:"verification_ttl"`
	VerificationPurgeInterval   timex.Duration `json:"verification_purge_interval"`
	LogLevel                    string         `json:"log_level"`

	MailProvider          string         `json:"mail_provider"`
	MailFrom              string         `json:"mail_from"`
	MailOverrideRecipient string         `json:"mail_override_recipient"`
	MailSendTimeout       timex.Duration `json:"mail_send_timeout"`

	MailgunDomain  string `json:"mailgun_domain"`
	MailgunAPIKey  string `json:"mailgun_api_key"`
	MailgunAPIBase string `json:"mailgun_api_base"`

	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`

	SESRegion       string `json:"ses_region"`
	SESAccessKey    string `json:"ses_access_key"`
	SESSecretKey    string `json:"ses_secret_key"`
	SESBaseEndpoint string `json:"ses_base_endpoint"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	EventsMaxLen  int64  `json:"events_max_len"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If it is
// not set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.VerificationTTL, c.VerificationTTL)
	setDuration(&config.VerificationPurgeInterval, c.VerificationPurgeInterval)
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.MailProvider, c.MailProvider)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.MailOverrideRecipient, c.MailOverrideRecipient)
	setDuration(&config.MailSendTimeout, c.MailSendTimeout)

	setString(&config.MailgunDomain, c.MailgunDomain)
	setString(&config.MailgunAPIKey, c.MailgunAPIKey)
	setString(&config.MailgunAPIBase, c.MailgunAPIBase)

	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)

	setString(&config.SESRegion, c.SESRegion)
	setString(&config.SESAccessKey, c.SESAccessKey)
	setString(&config.SESSecretKey, c.SESSecretKey)
	setString(&config.SESBaseEndpoint, c.SESBaseEndpoint)

	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != 0 {
		config.RedisDB = c.RedisDB
	}
	if c.EventsMaxLen != 0 {
		config.EventsMaxLen = c.EventsMaxLen
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
