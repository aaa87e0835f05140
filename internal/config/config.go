package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	ControlsToggle   = "toggle"   // 开始/暂停/继续 合并为一个按钮
	ControlsSeparate = "separate" // 开始、暂停分开
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Stopwatch StopwatchConfig `yaml:"stopwatch"`
	UI        UIConfig        `yaml:"ui"`
	History   HistoryConfig   `yaml:"history"`
	Sound     SoundConfig     `yaml:"sound"`
	Theme     ThemeConfig     `yaml:"theme"`
	Log       LogConfig       `yaml:"log"`
}

type AppConfig struct {
	Name         string `yaml:"name"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	Resizable    bool   `yaml:"resizable"`
}

type StopwatchConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type UIConfig struct {
	Controls  string `yaml:"controls"`
	Shortcuts bool   `yaml:"shortcuts"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Recent  int    `yaml:"recent"` // 历史页显示的最近记录条数
}

type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	File    string  `yaml:"file"`   // 可选的 wav 文件，为空时使用合成的提示音
	Volume  float64 `yaml:"volume"` // 以 2 为底的增益，0 为原始音量
}

type ThemeConfig struct {
	DarkMode bool    `yaml:"dark_mode"`
	FontSize float32 `yaml:"font_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// 默认配置
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "Stopwatch",
			WindowWidth:  430,
			WindowHeight: 320,
			Resizable:    false,
		},
		Stopwatch: StopwatchConfig{
			RefreshInterval: 100 * time.Millisecond,
		},
		UI: UIConfig{
			Controls:  ControlsToggle,
			Shortcuts: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "stopwatch.db",
			Recent:  10,
		},
		Sound: SoundConfig{
			Enabled: false,
			Volume:  0,
		},
		Theme: ThemeConfig{
			DarkMode: false,
			FontSize: 14,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	var errs []error

	if c.App.WindowWidth <= 0 || c.App.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.App.WindowWidth, c.App.WindowHeight))
	}
	if c.Stopwatch.RefreshInterval < 10*time.Millisecond || c.Stopwatch.RefreshInterval > time.Second {
		errs = append(errs, fmt.Errorf("refresh_interval must be between 10ms and 1s, got %s", c.Stopwatch.RefreshInterval))
	}
	if c.UI.Controls != ControlsToggle && c.UI.Controls != ControlsSeparate {
		errs = append(errs, fmt.Errorf("controls must be %q or %q, got %q", ControlsToggle, ControlsSeparate, c.UI.Controls))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path is required when history is enabled"))
	}
	if c.History.Enabled && c.History.Recent <= 0 {
		errs = append(errs, fmt.Errorf("history.recent must be positive, got %d", c.History.Recent))
	}
	if c.Theme.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font_size must be positive, got %v", c.Theme.FontSize))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q: %w", c.Log.Level, err))
	}

	return errors.Join(errs...)
}

type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
}

// NewManager 加载配置文件，文件不存在时写入默认配置。path 为空时使用 ~/.stopwatch/config.yaml
func NewManager(path string) (*Manager, error) {
	if path == "" {
		configDir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(configDir, "config.yaml")
	}

	manager := &Manager{
		configPath: path,
	}

	// 加载或创建配置
	err := manager.loadConfig()
	switch {
	case errors.Is(err, os.ErrNotExist):
		manager.config = DefaultConfig()
		if err := manager.SaveConfig(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	return manager, nil
}

func (m *Manager) loadConfig() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	// 在默认值上覆盖，缺省的字段保持默认
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config %s: %w", m.configPath, err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	return nil
}

func (m *Manager) SaveConfig() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.config)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// 确保配置目录存在
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GetConfig 返回配置的副本
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := *m.config
	return &c
}

func (m *Manager) Path() string {
	return m.configPath
}

// 获取配置文件目录
func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home dir: %w", err)
	}

	return filepath.Join(homeDir, ".stopwatch"), nil
}

// 更新配置的便捷方法
func (m *Manager) UpdateSoundConfig(config SoundConfig) error {
	m.mu.Lock()
	m.config.Sound = config
	m.mu.Unlock()
	return m.SaveConfig()
}

func (m *Manager) UpdateThemeConfig(config ThemeConfig) error {
	m.mu.Lock()
	m.config.Theme = config
	m.mu.Unlock()
	return m.SaveConfig()
}

func (m *Manager) UpdateUIConfig(config UIConfig) error {
	if config.Controls != ControlsToggle && config.Controls != ControlsSeparate {
		return fmt.Errorf("unknown controls %q", config.Controls)
	}
	m.mu.Lock()
	m.config.UI = config
	m.mu.Unlock()
	return m.SaveConfig()
}
