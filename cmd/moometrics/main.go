package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"MooMetrics/internal/collector"
	"MooMetrics/internal/config"
	"MooMetrics/internal/logger"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "moometrics",
	Short:         "Crypto news and video sentiment dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		if err := logger.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "configuration file path")

	rootCmd.AddCommand(serveCmd, digestCmd, legendCmd, historyCmd)
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newFetcher() *collector.HTTPFetcher {
	return collector.NewHTTPFetcher(
		cfg.News.BaseURL,
		cfg.Videos.BaseURL,
		cfg.Proxy,
		cfg.HTTP.Timeout,
		cfg.HTTP.RequestsPerMinute,
	)
}
