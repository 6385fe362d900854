package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
}

func TestLoadConfig(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr":"json:1","request_timeout":"9s"}`), 0o600))

	tests := []struct {
		name     string
		args     []string
		expected *Config
	}{
		{name: "defaults", args: []string{"cli"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:50051", RequestTimeout: 5 * time.Second}},
		{name: "json", args: []string{"cli", "-c", path},
			expected: &Config{ServerEndpointAddr: "json:1", RequestTimeout: 9 * time.Second}},
		{name: "flags over json", args: []string{"cli", "-config", path, "-a", "flag:2", "-t", "1"},
			expected: &Config{ServerEndpointAddr: "flag:2", RequestTimeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Empty(t, cmp.Diff(tt.expected, LoadConfig()))
		})
	}
}

func TestParseFlags_Panics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cli", "-t", "soon"}

	require.Panics(t, func() { parseFlags(&Config{}) })
}

func TestParseJson_Panics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	os.Args = []string{"cli", "-c", bad}

	require.Panics(t, func() { parseJson(&Config{}) })
}
