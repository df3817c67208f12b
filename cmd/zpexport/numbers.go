package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"zpexport/pkg/zoomphone"
)

var numbersCmd = &cobra.Command{
	Use:   "numbers",
	Short: "List phone numbers on the account",
	RunE:  runNumbers,
}

var (
	numbersType      string
	numbersExtension string
	numbersKind      string
	numbersPending   bool
	numbersSiteID    string
)

func init() {
	rootCmd.AddCommand(numbersCmd)
	numbersCmd.Flags().StringVar(&numbersType, "type", "", "assignment filter: assigned, unassigned or all")
	numbersCmd.Flags().StringVar(&numbersExtension, "extension-type", "", "extension filter: user, callQueue, autoReceptionist or commonAreaPhone")
	numbersCmd.Flags().StringVar(&numbersKind, "number-type", "", "toll or tollfree")
	numbersCmd.Flags().BoolVar(&numbersPending, "pending", false, "only numbers pending provisioning")
	numbersCmd.Flags().StringVar(&numbersSiteID, "site", "", "restrict to one site ID")
	addClientFlags(numbersCmd)
}

func runNumbers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	numbers, err := client.ListPhoneNumbers(cfg.Zoom.UserPageSize, zoomphone.PhoneNumberFilter{
		Type:           numbersType,
		ExtensionType:  numbersExtension,
		NumberType:     numbersKind,
		PendingNumbers: numbersPending,
		SiteID:         numbersSiteID,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTYPE\tSTATUS\tSITE\tASSIGNEE")
	for _, number := range numbers {
		assignee := ""
		if number.Assignee != nil {
			assignee = number.Assignee.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			number.Number, number.NumberType, number.Status, number.Site.Name, assignee)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	terminal.Info("%d phone numbers", len(numbers))
	return nil
}
