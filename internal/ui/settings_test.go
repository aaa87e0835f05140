package ui

import (
	"Stopwatch/internal/config"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsManager(t *testing.T) *config.Manager {
	t.Helper()
	m, err := config.NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	return m
}

// reload 重新读取配置文件，确认改动已经落盘
func reload(t *testing.T, m *config.Manager) *config.Config {
	t.Helper()
	fresh, err := config.NewManager(m.Path())
	require.NoError(t, err)
	return fresh.GetConfig()
}

func TestStopwatchView_SettingsDialogSavesConfig(t *testing.T) {
	test.NewTempApp(t)
	m := newSettingsManager(t)
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	v := NewStopwatchView(ViewOptions{Settings: m, Parent: w})
	w.SetContent(v.Container())
	require.NotNil(t, v.settingsBtn)

	test.Tap(v.settingsBtn)
	require.NotNil(t, v.settings)

	form := v.settings
	assert.False(t, form.soundCheck.Checked)
	assert.Equal(t, "14", form.fontEntry.Text)
	assert.Equal(t, config.ControlsToggle, form.controls.Selected)

	form.soundCheck.SetChecked(true)
	form.volumeSlider.SetValue(1.5)
	form.darkCheck.SetChecked(true)
	form.fontEntry.SetText("18")
	form.controls.SetSelected(config.ControlsSeparate)
	form.dialog.Submit()

	cfg := reload(t, m)
	assert.True(t, cfg.Sound.Enabled)
	assert.Equal(t, 1.5, cfg.Sound.Volume)
	assert.True(t, cfg.Theme.DarkMode)
	assert.Equal(t, float32(18), cfg.Theme.FontSize)
	assert.Equal(t, config.ControlsSeparate, cfg.UI.Controls)
}

func TestStopwatchView_SettingsDialogCancelKeepsConfig(t *testing.T) {
	test.NewTempApp(t)
	m := newSettingsManager(t)
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	v := NewStopwatchView(ViewOptions{Settings: m, Parent: w})
	w.SetContent(v.Container())

	test.Tap(v.settingsBtn)
	v.settings.darkCheck.SetChecked(true)
	v.settings.dialog.Hide()

	require.False(t, reload(t, m).Theme.DarkMode)
}

func TestSettingsForm_RejectsBadFontSize(t *testing.T) {
	test.NewTempApp(t)
	m := newSettingsManager(t)

	form := newSettingsForm(m)
	form.fontEntry.SetText("huge")
	require.ErrorContains(t, form.save(), "font size")

	form.fontEntry.SetText("-2")
	require.ErrorContains(t, form.save(), "font size")

	require.Equal(t, float32(14), reload(t, m).Theme.FontSize)
}

func TestStopwatchView_NoSettingsWithoutStore(t *testing.T) {
	f := newViewFixture(t, config.ControlsToggle)
	require.Nil(t, f.view.settingsBtn)

	f.view.showSettings()
	require.Nil(t, f.view.settings)
}
