package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zpexport/pkg/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Zoom API credentials",
}

var authLoginCmd = &cobra.Command{
	Use:   "login [account-name]",
	Short: "Store API credentials",
	Long: `Login prompts for a Zoom API key and secret and stores them under the
given account name (default "default"). The system keyring is preferred;
when no keyring is available and ZPEXPORT_PASSPHRASE is set, an encrypted
file under the user config directory is used instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout <account-name>",
	Short: "Remove stored API credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthLogout,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credential accounts",
	RunE:  runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authListCmd)
}

// credentialManager builds the store chain: environment variables win for
// scripted use, then the system keyring, then the encrypted file when a
// passphrase is available
func credentialManager() *auth.Manager {
	stores := []auth.CredentialStore{
		auth.NewEnvironmentStore(),
		auth.NewKeyringStore(),
	}

	if passphrase := os.Getenv("ZPEXPORT_PASSPHRASE"); passphrase != "" {
		if fileStore, err := auth.NewEncryptedFileStore(passphrase); err == nil {
			stores = append(stores, fileStore)
		}
	}

	return auth.NewManager(stores...)
}

// writableCredentialManager is the same chain without the read-only
// environment store, for login and logout
func writableCredentialManager() *auth.Manager {
	stores := []auth.CredentialStore{
		auth.NewKeyringStore(),
	}

	if passphrase := os.Getenv("ZPEXPORT_PASSPHRASE"); passphrase != "" {
		if fileStore, err := auth.NewEncryptedFileStore(passphrase); err == nil {
			stores = append(stores, fileStore)
		}
	}

	return auth.NewManager(stores...)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	name := "default"
	if len(args) == 1 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("API key: ")
	apiKey, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	apiKey = strings.TrimSpace(apiKey)

	fmt.Print("API secret: ")
	secretBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API secret: %w", err)
	}

	account := &auth.Account{
		Name:      name,
		APIKey:    apiKey,
		APISecret: strings.TrimSpace(string(secretBytes)),
	}

	if err := writableCredentialManager().Store(account); err != nil {
		return err
	}

	fmt.Printf("Stored credentials for account %q\n", name)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	if err := writableCredentialManager().Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed credentials for account %q\n", args[0])
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	names, err := credentialManager().List()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No stored accounts")
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
