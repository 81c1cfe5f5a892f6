package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TASKS_API_URL", "CLIENT_REQUEST_TIMEOUT", "MESSAGE_TTL", "LOG_LEVEL"} {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.MessageTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKS_API_URL=https://tasks.example.com/api\nMESSAGE_TTL=1s\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com/api", cfg.APIURL)
	assert.Equal(t, time.Second, cfg.MessageTTL)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{name: "not a url", key: "TASKS_API_URL", val: "localhost:5000"},
		{name: "ftp scheme", key: "TASKS_API_URL", val: "ftp://host/api"},
		{name: "zero timeout", key: "CLIENT_REQUEST_TIMEOUT", val: "0s"},
		{name: "negative ttl", key: "MESSAGE_TTL", val: "-3s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			assert.ErrorContains(t, err, tc.key)
		})
	}
}
