package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultThreadCount, cfg.Compile.ThreadCount)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Profile.Path)
	assert.NotEmpty(t, cfg.Shelf.Path)
}

func TestLoadFlagOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("profile.path", "/tmp/profile")
	viper.Set("shelf.path", "/tmp/shelf")
	viper.Set("compile.thread_count", 8)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/profile", cfg.Profile.Path)
	assert.Equal(t, "/tmp/shelf", cfg.Shelf.Path)
	assert.Equal(t, 8, cfg.Compile.ThreadCount)
}

func TestLoadRejectsBadThreadCount(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("compile.thread_count", -1)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("log.format", "xml")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsDangerousPath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("shelf.path", "/tmp/shelf; rm -rf /")

	_, err := Load()
	assert.Error(t, err)
}
