package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cognicore/quill/internal/logger"
	"github.com/cognicore/quill/pkg/quill/config"
)

// RootCmd returns the quill command tree
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "Writing development metrics",
		Long:          "Measure lexical diversity, lexical density and clause complexity across an author's writing samples",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "YAML configuration file")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().Bool("no-color", false, "Disable colored terminal output")

	root.AddCommand(
		AnalyzeCmd(),
		HistoryCmd(),
	)

	return root
}

// loadConfig reads --config (or the defaults), applies --log-level and
// installs the configured logger on the command context.
func loadConfig(cmd *cobra.Command) (*config.Config, context.Context, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, nil, err
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logger.Init(logCfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return cfg, logger.ContextWithLogger(ctx, logger.GetDefault()), nil
}

func colorEnabled(cmd *cobra.Command) bool {
	off, _ := cmd.Flags().GetBool("no-color")
	return !off
}
