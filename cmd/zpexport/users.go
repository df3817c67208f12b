package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the account's phone users",
	RunE:  runUsers,
}

var usersSiteID string

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().StringVar(&usersSiteID, "site", "", "restrict to one site ID")
	addClientFlags(usersCmd)
}

func runUsers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	users, err := client.ListUsers(cfg.Zoom.UserPageSize, usersSiteID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tEXT\tSTATUS\tSITE")
	for _, user := range users {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			user.Email, user.Name, user.ExtensionNumber, user.Status, user.Site.Name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	terminal.Info("%d users", len(users))
	return nil
}
