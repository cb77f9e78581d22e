package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

type rootFlags struct {
	configPath string
	logLevel   string
	headless   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "browseruse",
		Short:         "Tiered web content acquisition: search, filter, download",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to browseruse.yaml")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&flags.headless, "headless", true, "run Chrome headless")

	cmd.AddCommand(
		newImagesCmd(flags),
		newVideosCmd(flags),
		newDownloadCmd(flags),
		newLoginCmd(flags),
		newAccountsCmd(flags),
		newMCPCmd(flags),
		newHistoryCmd(flags),
	)
	return cmd
}

// setup loads config and builds the logger shared by all subcommands.
func (f *rootFlags) setup(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	cfg, err := LoadConfig(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = f.headless
	}

	var level slog.Level
	switch f.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	case "info":
		level = slog.LevelInfo
	default:
		return nil, nil, fmt.Errorf("unknown log level %q", f.logLevel)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}
