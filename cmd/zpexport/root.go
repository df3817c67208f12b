package main

import (
	"github.com/spf13/cobra"

	"zpexport/pkg/config"
	"zpexport/pkg/logger"
	"zpexport/pkg/ui"
)

var (
	cfgFile  string
	logLevel string
	quiet    bool
	noColor  bool

	terminal *ui.Terminal
)

var rootCmd = &cobra.Command{
	Use:   "zpexport",
	Short: "Export Zoom Phone call recordings",
	Long: `zpexport talks to the Zoom Phone REST API to list phone users and
download their call recordings into a local directory tree organized by
year, month and user email.

Runs are idempotent: recordings already on disk are skipped, so the tool
can be scheduled to keep a local archive current.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if quiet && level == "" {
			level = "error"
		}
		if level == "" {
			level = "info"
		}
		if err := logger.Initialize(&config.LoggingConfig{Level: level}); err != nil {
			return err
		}
		terminal = ui.NewTerminal(quiet, noColor)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches .zpexport.yaml locations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress status output, print errors only")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
