package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zpexport/pkg/export"
	"zpexport/pkg/logger"
	"zpexport/pkg/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download call recordings for phone users",
	Long: `Export lists the account's phone users, fetches each user's call
recording metadata, and downloads every recording that is not already on
disk. Files land under:

  <output>/<year>/<month>/<email>/YYYYMMDD-HHMM-<caller>-<callee>.mp3

With --email the user listing is skipped and the given users are exported
directly.`,
	Example: `  zpexport export
  zpexport export --email alice@example.com --email bob@example.com
  zpexport export --output /archive/recordings --account work`,
	RunE: runExport,
}

var (
	exportEmails   []string
	exportOutput   string
	exportPageSize int
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringSliceVarP(&exportEmails, "email", "e", nil, "export only these users (repeatable)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "base directory for downloaded recordings")
	exportCmd.Flags().IntVar(&exportPageSize, "page-size", 0, "recordings per API page (1-300)")
	addClientFlags(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	store, err := storage.NewManager(cfg.Output.BaseDirectory)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(client, store, logger.GetLogger(),
		cfg.Zoom.UserPageSize, cfg.Zoom.RecordingPageSize)

	terminal.Highlight("Exporting call recordings to %s", store.BaseDir())

	report, err := exporter.Run(exportEmails)
	if err != nil {
		return err
	}

	for _, user := range report.Users {
		if user.Err != nil {
			terminal.Error("%s: %v", user.Email, user.Err)
			continue
		}
		terminal.Info("%s: %d recordings, %d downloaded, %d skipped, %d failed",
			user.Email, user.Recordings, user.Downloaded, user.Skipped, user.Failures)
	}

	terminal.Highlight("Done: %d downloaded, %d skipped, %d failed",
		report.TotalDownloaded, report.TotalSkipped, report.TotalFailures)

	if report.FailedUsers > 0 || report.TotalFailures > 0 {
		return fmt.Errorf("%d users and %d recordings failed to export",
			report.FailedUsers, report.TotalFailures)
	}

	terminal.Success("All recordings exported")
	return nil
}
