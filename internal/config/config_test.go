package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_WritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	m, err := NewManager(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written")
	require.Equal(t, DefaultConfig(), m.GetConfig())
}

func TestNewManager_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "stopwatch:\n  refresh_interval: 250ms\nui:\n  controls: separate\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := NewManager(path)
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, 250*time.Millisecond, cfg.Stopwatch.RefreshInterval)
	assert.Equal(t, ControlsSeparate, cfg.UI.Controls)
	assert.Equal(t, 430, cfg.App.WindowWidth)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNewManager_RejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unterminated"), 0644))

	_, err := NewManager(path)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "app: [unterminated", string(data), "a broken file must not be overwritten")
}

func TestNewManager_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  controls: wheel\n"), 0644))

	_, err := NewManager(path)
	require.ErrorContains(t, err, "controls")
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Stopwatch.RefreshInterval = time.Millisecond
	require.ErrorContains(t, cfg.Validate(), "refresh_interval")

	cfg = DefaultConfig()
	cfg.App.WindowWidth = 0
	require.ErrorContains(t, cfg.Validate(), "window size")

	cfg = DefaultConfig()
	cfg.History.Path = ""
	require.ErrorContains(t, cfg.Validate(), "history.path")

	cfg.History.Enabled = false
	require.NoError(t, cfg.Validate())
}

func TestValidate_HistoryRecentMustBePositive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.Recent = -1
	require.ErrorContains(t, cfg.Validate(), "history.recent")

	cfg.History.Recent = 0
	require.ErrorContains(t, cfg.Validate(), "history.recent")

	// 关闭历史时不检查
	cfg.History.Enabled = false
	require.NoError(t, cfg.Validate())
}

func TestNewManager_RejectsUnknownLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644))

	_, err := NewManager(path)
	require.ErrorContains(t, err, "log.level")
}

func TestManager_UpdatesArePersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	require.NoError(t, err)

	require.NoError(t, m.UpdateSoundConfig(SoundConfig{Enabled: true, Volume: -1}))
	require.NoError(t, m.UpdateThemeConfig(ThemeConfig{DarkMode: true, FontSize: 18}))
	require.Error(t, m.UpdateUIConfig(UIConfig{Controls: "dial"}))

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	cfg := reloaded.GetConfig()
	assert.True(t, cfg.Sound.Enabled)
	assert.Equal(t, -1.0, cfg.Sound.Volume)
	assert.True(t, cfg.Theme.DarkMode)
	assert.Equal(t, float32(18), cfg.Theme.FontSize)
	assert.Equal(t, ControlsToggle, cfg.UI.Controls)
}

func TestManager_GetConfigReturnsCopy(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	cfg := m.GetConfig()
	cfg.App.Name = "changed"

	require.Equal(t, "Stopwatch", m.GetConfig().App.Name)
}

func TestManager_WatchConfigReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var darkMode atomic.Bool
	require.NoError(t, m.WatchConfig(ctx, func(cfg *Config) {
		darkMode.Store(cfg.Theme.DarkMode)
	}, nil))

	require.NoError(t, os.WriteFile(path, []byte("theme:\n  dark_mode: true\n"), 0644))

	require.Eventually(t, darkMode.Load, 5*time.Second, 20*time.Millisecond)
	require.True(t, m.GetConfig().Theme.DarkMode)
}

func TestManager_WatchConfigReportsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var failed atomic.Bool
	require.NoError(t, m.WatchConfig(ctx, nil, func(error) { failed.Store(true) }))

	require.NoError(t, os.WriteFile(path, []byte("stopwatch:\n  refresh_interval: 1h\n"), 0644))

	require.Eventually(t, failed.Load, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, 100*time.Millisecond, m.GetConfig().Stopwatch.RefreshInterval, "last good config is kept")
}
