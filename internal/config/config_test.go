package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus-cli/internal/domain"
)

func TestDefaultConfig_ModeSettings(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, domain.DefaultModeSettings(), cfg.ModeSettings())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, 25*time.Minute, time.Duration(cfg.Focus.WorkInterval))
	assert.Equal(t, 5*time.Minute, time.Duration(cfg.Focus.Break))
	assert.Equal(t, 15*time.Minute, time.Duration(cfg.Focus.AdditionalBreak))
	assert.Equal(t, domain.DefaultListID, cfg.Focus.List)
	assert.True(t, cfg.Notifications.Enabled)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".focus"), cfg.Storage.DataDir, "~ is expanded")
	assert.Equal(t, filepath.Join(home, ".focus", "focus.db"), GetDBPath(cfg))
	assert.Equal(t, filepath.Join(home, ".focus", "focus.log"), cfg.LogPath())
}

func TestLoadFrom_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[focus]
work_interval = "50m"
break = "10m"
additional_break = "30m"
include_background_tasks = true
list = "work"

[time]
zone = "Europe/Madrid"

[storage]
data_dir = "/var/lib/focus"

[log]
level = "debug"
format = "json"
file = "/tmp/focus.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	settings := cfg.ModeSettings()
	assert.Equal(t, 50*time.Minute, settings.WorkIntervalDuration)
	assert.Equal(t, 10*time.Minute, settings.BreakDuration)
	assert.Equal(t, 30*time.Minute, settings.AdditionalBreakDuration)
	assert.True(t, settings.IncludeBackgroundTasks)
	assert.Equal(t, "work", cfg.Focus.List)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Focus.Tick), "missing keys fall back to defaults")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())

	assert.Equal(t, "/var/lib/focus", cfg.Storage.DataDir)
	assert.Equal(t, "/tmp/focus.log", cfg.LogPath())
	assert.Equal(t, "DEBUG", cfg.LogLevel().String())
}

func TestLoadFrom_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero work", "[focus]\nwork_interval = \"0s\"\n"},
		{"bad duration", "[focus]\nbreak = \"soon\"\n"},
		{"bad zone", "[time]\nzone = \"Mars/Olympus\"\n"},
		{"bad log format", "[log]\nformat = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Set(path, "focus.work_interval", "45m")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, time.Duration(cfg.Focus.WorkInterval))

	cfg, err = Set(path, "notifications.sound", "false")
	require.NoError(t, err)
	assert.False(t, cfg.Notifications.Sound)

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, time.Duration(reloaded.Focus.WorkInterval))
	assert.False(t, reloaded.Notifications.Sound)

	_, err = Set(path, "focus.colour", "red")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown config key"))

	_, err = Set(path, "focus.break", "-5m")
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)

	reloaded, err = LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, time.Duration(reloaded.Focus.Break), "a rejected value is not written")
}

func TestLogLevel_Fallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "chatty"
	assert.Equal(t, "INFO", cfg.LogLevel().String())
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "focus.work_interval")
	assert.Contains(t, keys, "time.zone")
	assert.IsIncreasing(t, keys)
}
