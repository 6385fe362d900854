package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, "file:eatery.db", c.DatabaseDSN)
	assert.Empty(t, c.SecretKey, "no built-in signing key")
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.VerificationTTL)
	assert.Equal(t, time.Hour, c.VerificationPurgeInterval)
	assert.Equal(t, MailProviderLog, c.MailProvider)
	assert.Equal(t, 15*time.Second, c.MailSendTimeout)
	assert.Equal(t, 587, c.SMTPPort)
	assert.Empty(t, c.RedisAddr)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("DATABASE_DSN", "from-env")
	t.Setenv("GRPC_ADDRESS", ":1111")
	t.Setenv("MAIL_PROVIDER", "smtp")

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_grpc": ":2222",
		"mail_provider":      "ses",
	})
	os.Args = []string{"testbin", "-c", path, "-a", ":3333"}

	c := LoadConfig()

	assert.Equal(t, "from-env", c.DatabaseDSN, "env over defaults")
	assert.Equal(t, "ses", c.MailProvider, "json over env")
	assert.Equal(t, ":3333", c.EndpointAddrGRPC, "flags over json")
}
