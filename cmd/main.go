package main

import (
	"Stopwatch/internal/config"
	"Stopwatch/internal/logging"
	"Stopwatch/internal/ui"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
)

// Version is set at build time using ldflags
var Version = "dev"

const appID = "com.example.stopwatch"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		controls   string
	)

	cmd := &cobra.Command{
		Use:          "stopwatch",
		Short:        "A desktop stopwatch",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 初始化配置管理器
			configManager, err := config.NewManager(configPath)
			if err != nil {
				return err
			}

			// 命令行参数只影响本次运行，不写回配置文件
			cfg := configManager.GetConfig()
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("controls") {
				cfg.UI.Controls = controls
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.New(os.Stderr, cfg.Log.Level)
			if err != nil {
				return err
			}
			logger.Info("starting", "version", Version, "config", configManager.Path(), "controls", cfg.UI.Controls)

			// 创建应用和主窗口
			myApp := app.NewWithID(appID)
			mainWindow := ui.NewMainWindow(myApp, configManager, cfg, logger)
			mainWindow.Show()
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default is $HOME/.stopwatch/config.yaml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&controls, "controls", config.ControlsToggle, "Button layout: toggle or separate")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.DefaultConfig().App.Name, Version)
			return err
		},
	}
}
