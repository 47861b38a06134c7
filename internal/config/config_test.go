package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 30*time.Second, c.Transport.HeartbeatInterval)
	assert.Equal(t, 4*time.Second, c.WordSource.Timeout)
	assert.Equal(t, 200, c.Game.MaxHintLength)
	assert.Empty(t, c.WordSource.Endpoint)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config.json")
	body := `{
		"port": 9090,
		"log_level": "debug",
		"transport": {"heartbeat_interval": "5s", "send_buffer": 8},
		"word_source": {"endpoint": "http://words.local/v1/chat/completions", "timeout": "1500ms"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Port)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 5*time.Second, c.Transport.HeartbeatInterval)
	assert.Equal(t, 8, c.Transport.SendBuffer)
	assert.Equal(t, 45*time.Second, c.Transport.HeartbeatTimeout)
	assert.Equal(t, "http://words.local/v1/chat/completions", c.WordSource.Endpoint)
	assert.Equal(t, 1500*time.Millisecond, c.WordSource.Timeout)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("PICTIONARY_PORT", "7070")
	t.Setenv("PICTIONARY_WORD_SOURCE_API_KEY", "secret")

	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, 7070, c.Port)
	assert.Equal(t, "secret", c.WordSource.APIKey)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
