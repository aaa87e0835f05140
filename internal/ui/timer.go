package ui

import (
	"Stopwatch/internal/config"
	"Stopwatch/internal/logging"
	"Stopwatch/internal/models"
	"Stopwatch/internal/sound"
	"Stopwatch/internal/stopwatch"
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
)

// Recorder 保存一次已结束的计时
type Recorder interface {
	SaveSession(record *models.SessionRecord) error
}

// Notifier 状态切换时的声音提示
type Notifier interface {
	Play(effect sound.Effect)
}

type ViewOptions struct {
	Controls string          // config.ControlsToggle 或 config.ControlsSeparate
	Clock    stopwatch.Clock // 为空时使用系统时间
	Recorder Recorder        // 可为空，为空时不记录历史
	Notifier Notifier        // 可为空
	Logger   *log.Logger
	Theme    *stopwatchTheme
	Settings SettingsStore // 为空时不显示设置按钮
	Parent   fyne.Window   // 设置对话框的父窗口
}

// StopwatchView 秒表界面，持有唯一的秒表状态机
type StopwatchView struct {
	sw       *stopwatch.Stopwatch
	logger   *log.Logger
	recorder Recorder
	notifier Notifier
	controls string

	settingsStore SettingsStore
	parent        fyne.Window
	settings      *settingsForm // 最近一次打开的设置

	onRecorded func() // 记录保存后回调，用于刷新历史页

	// UI 组件
	container   *fyne.Container
	titleLabel  *canvas.Text
	timeLabel   *canvas.Text
	startButton *widget.Button
	pauseButton *widget.Button // 仅 separate 模式
	resetButton *widget.Button
	settingsBtn *widget.Button
}

// NewStopwatchView 创建秒表界面
func NewStopwatchView(opts ViewOptions) *StopwatchView {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Theme == nil {
		opts.Theme = newTheme(config.DefaultConfig().Theme)
	}
	if opts.Controls == "" {
		opts.Controls = config.ControlsToggle
	}

	v := &StopwatchView{
		sw:       stopwatch.New(opts.Clock),
		logger:   opts.Logger,
		recorder: opts.Recorder,
		notifier: opts.Notifier,
		controls: opts.Controls,

		settingsStore: opts.Settings,
		parent:        opts.Parent,
	}

	v.titleLabel = canvas.NewText("Stopwatch:", textColor)
	v.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	v.titleLabel.TextSize = 36
	v.titleLabel.Alignment = fyne.TextAlignCenter

	v.timeLabel = canvas.NewText(stopwatch.ZeroDisplay, timeColor)
	v.timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	v.timeLabel.TextSize = 60
	v.timeLabel.Alignment = fyne.TextAlignCenter

	// 创建控制按钮
	buttons := []fyne.CanvasObject{}
	if v.controls == config.ControlsSeparate {
		v.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), v.start)
		v.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), v.pause)
		v.pauseButton.Importance = widget.MediumImportance
		buttons = append(buttons, v.startButton, v.pauseButton)
	} else {
		v.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), v.toggle)
		buttons = append(buttons, v.startButton)
	}
	v.startButton.Importance = widget.HighImportance

	v.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), v.reset)
	v.resetButton.Importance = widget.MediumImportance
	buttons = append(buttons, v.resetButton)

	if v.settingsStore != nil {
		v.settingsBtn = widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), v.showSettings)
		v.settingsBtn.Importance = widget.LowImportance
		buttons = append(buttons, v.settingsBtn)
	}

	content := container.NewVBox(
		container.NewPadded(v.titleLabel),
		container.NewPadded(v.timeLabel),
		container.NewVBox(buttons...),
	)
	v.container = container.NewPadded(content)

	v.ApplyTheme(opts.Theme)
	v.updateControls()
	return v
}

func (v *StopwatchView) Container() *fyne.Container {
	return v.container
}

// SetOnRecorded 设置记录保存后的回调
func (v *StopwatchView) SetOnRecorded(callback func()) {
	v.onRecorded = callback
}

// Run 启动显示刷新循环，直到 ctx 结束
func (v *StopwatchView) Run(ctx context.Context, interval time.Duration) {
	go stopwatch.Every(ctx, interval, fyne.DoAndWait, v.refresh)
}

// refresh 周期回调，只在运行时重绘。始终返回 true 保持调度
func (v *StopwatchView) refresh() bool {
	if text, redraw := v.sw.Display(); redraw {
		v.setTime(text)
	}
	return true
}

// TypedKey 键盘快捷键：空格 开始/暂停，R 或退格 重置
func (v *StopwatchView) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace:
		v.toggle()
	case fyne.KeyR, fyne.KeyBackspace:
		v.reset()
	}
}

// ApplyTheme 主题变化后更新自绘文字的颜色
func (v *StopwatchView) ApplyTheme(t *stopwatchTheme) {
	v.timeLabel.Color = t.timeColor()
	v.titleLabel.Color = t.titleColor()
	v.timeLabel.Refresh()
	v.titleLabel.Refresh()
}

func (v *StopwatchView) toggle() {
	v.apply(v.sw.Toggle())
}

func (v *StopwatchView) start() {
	v.apply(v.sw.Start())
}

func (v *StopwatchView) pause() {
	v.apply(v.sw.Pause())
}

func (v *StopwatchView) reset() {
	tr := v.sw.Reset()
	v.apply(tr)

	if tr.From != models.StateReset && tr.Elapsed > 0 {
		v.record(tr)
	}
}

func (v *StopwatchView) apply(tr stopwatch.Transition) {
	// 状态变化时立即显示准确的时间，重置后为 00:00:00
	v.setTime(stopwatch.Format(v.sw.Elapsed()))

	if !tr.Changed() {
		return
	}
	v.logger.Info("state changed", "from", tr.From, "to", tr.To, "elapsed", stopwatch.Format(tr.Elapsed))
	v.updateControls()

	if v.notifier == nil {
		return
	}
	switch tr.To {
	case models.StateRunning:
		v.notifier.Play(sound.EffectStart)
	case models.StatePaused:
		v.notifier.Play(sound.EffectPause)
	case models.StateReset:
		v.notifier.Play(sound.EffectReset)
	}
}

func (v *StopwatchView) record(tr stopwatch.Transition) {
	if v.recorder == nil {
		return
	}

	record := &models.SessionRecord{
		StartedAt: tr.Started,
		EndedAt:   tr.At,
		Elapsed:   tr.Elapsed,
		Pauses:    tr.Pauses,
	}
	if err := v.recorder.SaveSession(record); err != nil {
		v.logger.Error("failed to save session", "error", err)
		return
	}
	v.logger.Debug("session saved", "id", record.ID, "elapsed", stopwatch.Format(record.Elapsed))

	if v.onRecorded != nil {
		v.onRecorded()
	}
}

func (v *StopwatchView) setTime(text string) {
	if v.timeLabel.Text == text {
		return
	}
	v.timeLabel.Text = text
	v.timeLabel.Refresh()
}

func (v *StopwatchView) updateControls() {
	state := v.sw.State()

	if v.controls == config.ControlsSeparate {
		if state == models.StatePaused {
			v.startButton.SetText("Continue")
		} else {
			v.startButton.SetText("Start")
		}
		if state == models.StateRunning {
			v.startButton.Disable()
			v.pauseButton.Enable()
		} else {
			v.startButton.Enable()
			v.pauseButton.Disable()
		}
		return
	}

	v.startButton.SetText(stopwatch.ToggleLabel(state))
	if state == models.StateRunning {
		v.startButton.SetIcon(theme.MediaPauseIcon())
	} else {
		v.startButton.SetIcon(theme.MediaPlayIcon())
	}
}
