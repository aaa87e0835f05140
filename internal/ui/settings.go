package ui

import (
	"Stopwatch/internal/config"
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// SettingsStore 设置页读写配置。保存后由配置监听把声音和主题应用到界面
type SettingsStore interface {
	GetConfig() *config.Config
	UpdateSoundConfig(cfg config.SoundConfig) error
	UpdateThemeConfig(cfg config.ThemeConfig) error
	UpdateUIConfig(cfg config.UIConfig) error
}

type settingsForm struct {
	store  SettingsStore
	dialog *dialog.FormDialog

	soundCheck   *widget.Check
	volumeSlider *widget.Slider
	darkCheck    *widget.Check
	fontEntry    *widget.Entry
	controls     *widget.RadioGroup
}

func newSettingsForm(store SettingsStore) *settingsForm {
	cfg := store.GetConfig()
	f := &settingsForm{store: store}

	f.soundCheck = widget.NewCheck("", nil)
	f.soundCheck.SetChecked(cfg.Sound.Enabled)

	f.volumeSlider = widget.NewSlider(-5, 5)
	f.volumeSlider.Step = 0.5
	f.volumeSlider.SetValue(cfg.Sound.Volume)

	f.darkCheck = widget.NewCheck("", nil)
	f.darkCheck.SetChecked(cfg.Theme.DarkMode)

	f.fontEntry = widget.NewEntry()
	f.fontEntry.SetText(strconv.FormatFloat(float64(cfg.Theme.FontSize), 'f', -1, 32))
	f.fontEntry.Validator = func(s string) error {
		_, err := parseFontSize(s)
		return err
	}

	f.controls = widget.NewRadioGroup([]string{config.ControlsToggle, config.ControlsSeparate}, nil)
	f.controls.Horizontal = true
	f.controls.Required = true
	f.controls.SetSelected(cfg.UI.Controls)

	return f
}

func (f *settingsForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		{Text: "Sound", Widget: f.soundCheck},
		{Text: "Volume", Widget: f.volumeSlider},
		{Text: "Dark mode", Widget: f.darkCheck},
		{Text: "Font size", Widget: f.fontEntry},
		{Text: "Buttons", Widget: f.controls, HintText: "Applied on next start"},
	}
}

// save 写回配置文件，三部分分别保存并汇总错误
func (f *settingsForm) save() error {
	size, err := parseFontSize(f.fontEntry.Text)
	if err != nil {
		return err
	}
	cfg := f.store.GetConfig()

	sound := cfg.Sound
	sound.Enabled = f.soundCheck.Checked
	sound.Volume = f.volumeSlider.Value

	th := cfg.Theme
	th.DarkMode = f.darkCheck.Checked
	th.FontSize = size

	layout := cfg.UI
	layout.Controls = f.controls.Selected

	return errors.Join(
		f.store.UpdateSoundConfig(sound),
		f.store.UpdateThemeConfig(th),
		f.store.UpdateUIConfig(layout),
	)
}

func parseFontSize(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("font size must be a positive number, got %q", s)
	}
	return float32(v), nil
}

// showSettings 打开设置对话框
func (v *StopwatchView) showSettings() {
	if v.settingsStore == nil || v.parent == nil {
		return
	}

	form := newSettingsForm(v.settingsStore)
	form.dialog = dialog.NewForm("Settings", "Save", "Cancel", form.items(), func(ok bool) {
		if !ok {
			return
		}
		if err := form.save(); err != nil {
			v.logger.Error("failed to save settings", "error", err)
			dialog.ShowError(err, v.parent)
			return
		}
		v.logger.Info("settings saved")
	}, v.parent)
	form.dialog.Resize(fyne.NewSize(360, 300))
	form.dialog.Show()

	v.settings = form
}
