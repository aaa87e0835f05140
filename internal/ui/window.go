package ui

import (
	"Stopwatch/internal/config"
	"Stopwatch/internal/logging"
	"Stopwatch/internal/sound"
	"Stopwatch/internal/storage"
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/charmbracelet/log"
)

type MainWindow struct {
	app           fyne.App
	window        fyne.Window
	configManager *config.Manager
	config        *config.Config
	logger        *log.Logger
	db            *storage.Database
	sounds        *sound.Player
	view          *StopwatchView
	history       *HistoryView
	cancel        context.CancelFunc
}

// NewMainWindow 创建主窗口。cfg 是启动时生效的配置（可能带有命令行覆盖），
// 历史数据库打不开时只记录日志并关闭历史页
func NewMainWindow(app fyne.App, configManager *config.Manager, cfg *config.Config, logger *log.Logger) *MainWindow {
	if logger == nil {
		logger = logging.Discard()
	}

	w := &MainWindow{
		app:           app,
		window:        app.NewWindow(cfg.App.Name),
		configManager: configManager,
		config:        cfg,
		logger:        logger,
		sounds:        sound.NewPlayer(cfg.Sound, logger),
	}

	if cfg.History.Enabled {
		db, err := storage.NewDatabase(cfg.History.Path)
		if err != nil {
			logger.Warn("history disabled", "path", cfg.History.Path, "error", err)
		} else {
			w.db = db
		}
	}

	w.setup()
	return w
}

func (w *MainWindow) setup() {
	t := newTheme(w.config.Theme)
	w.app.Settings().SetTheme(t)

	opts := ViewOptions{
		Controls: w.config.UI.Controls,
		Notifier: w.sounds,
		Logger:   w.logger,
		Theme:    t,
		Parent:   w.window,
	}
	if w.configManager != nil {
		opts.Settings = w.configManager
	}
	if w.db != nil {
		opts.Recorder = w.db
	}
	w.view = NewStopwatchView(opts)

	var content fyne.CanvasObject = w.view.Container()
	if w.db != nil {
		w.history = NewHistoryView(w.db, w.window, w.config.History.Recent, w.logger)
		w.view.SetOnRecorded(w.history.Refresh)

		content = container.NewAppTabs(
			container.NewTabItem("Stopwatch", w.view.Container()),
			container.NewTabItem("History", w.history.Container()),
		)
	}

	if w.config.UI.Shortcuts {
		w.window.Canvas().SetOnTypedKey(w.view.TypedKey)
	}

	w.window.SetContent(content)
	w.window.Resize(fyne.NewSize(float32(w.config.App.WindowWidth), float32(w.config.App.WindowHeight)))
	w.window.SetFixedSize(!w.config.App.Resizable)
	w.window.CenterOnScreen()
}

// Show 启动刷新循环与配置监听，阻塞直到窗口关闭
func (w *MainWindow) Show() {
	w.start()
	w.window.ShowAndRun()

	if err := w.Close(); err != nil {
		w.logger.Error("shutdown", "error", err)
	}
}

// start 启动后台循环。窗口关闭时立即取消，事件循环停止后不再投递刷新
func (w *MainWindow) start() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.window.SetOnClosed(cancel)

	w.view.Run(ctx, w.config.Stopwatch.RefreshInterval)

	if w.configManager != nil {
		err := w.configManager.WatchConfig(ctx, w.onConfigChanged, func(err error) {
			w.logger.Warn("config reload failed", "error", err)
		})
		if err != nil {
			w.logger.Warn("config watch disabled", "error", err)
		}
	}
	return ctx
}

// Close 停止后台循环并关闭数据库
func (w *MainWindow) Close() error {
	if w.cancel != nil {
		w.cancel()
	}

	var errs []error
	if w.db != nil {
		errs = append(errs, w.db.Close())
		w.db = nil
	}
	return errors.Join(errs...)
}

// onConfigChanged 在监听 goroutine 上被调用
func (w *MainWindow) onConfigChanged(cfg *config.Config) {
	fyne.Do(func() {
		w.applyConfig(cfg)
	})
}

// applyConfig 应用可以热更新的配置：声音和主题
func (w *MainWindow) applyConfig(cfg *config.Config) {
	w.sounds.Apply(cfg.Sound)

	t := newTheme(cfg.Theme)
	w.app.Settings().SetTheme(t)
	w.view.ApplyTheme(t)

	w.config.Sound = cfg.Sound
	w.config.Theme = cfg.Theme
	w.logger.Info("config reloaded", "sound", cfg.Sound.Enabled, "dark_mode", cfg.Theme.DarkMode)
}
