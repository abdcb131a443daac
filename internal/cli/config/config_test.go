package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	require.NoError(t, Init(path))

	assert.Equal(t, filepath.Join(dir, "nested"), GetConfigDir())
	assert.Equal(t, path, GetConfigFile())
	assert.Equal(t, "http://localhost:8080", GetString("api.base_url"))
	assert.Equal(t, 30*time.Second, APITimeout())
	assert.Equal(t, 50, GetInt("research.page_size"))
	assert.Equal(t, 250*time.Millisecond, PageDelay())
	assert.Equal(t, filepath.Join(dir, "nested", "misinfo-cli.log"), GetString("log.file"))
}

func TestInitReadsFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "http://api.test:9000"
timeout = 5

[research]
page_delay_ms = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	require.NoError(t, Init(path))

	assert.Equal(t, "http://api.test:9000", GetString("api.base_url"))
	assert.Equal(t, 5*time.Second, APITimeout())
	assert.Equal(t, 10*time.Millisecond, PageDelay())
	assert.Equal(t, 50, GetInt("research.page_size"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs/cli.log"), expandPath("~/logs/cli.log"))
	assert.Equal(t, "/var/log/cli.log", expandPath("/var/log/cli.log"))
}
