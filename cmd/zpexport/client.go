package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zpexport/pkg/auth"
	"zpexport/pkg/config"
	"zpexport/pkg/logger"
	"zpexport/pkg/zoomphone"
)

// Flags shared by every command that talks to the API
var (
	flagAccount   string
	flagAPIKey    string
	flagAPISecret string
	flagServer    string
)

// addClientFlags registers the credential and server flags on a command
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagAccount, "account", "a", "", "stored credential account to use")
	cmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Zoom API key (overrides stored credentials)")
	cmd.Flags().StringVar(&flagAPISecret, "api-secret", "", "Zoom API secret (overrides stored credentials)")
	cmd.Flags().StringVar(&flagServer, "server", "", "API server host and base path")
}

// loadConfig merges flags over env vars and the config file
func loadConfig() (*config.Config, error) {
	flags := map[string]interface{}{
		"api-key":    flagAPIKey,
		"api-secret": flagAPISecret,
		"server":     flagServer,
		"output":     exportOutput,
		"page-size":  exportPageSize,
		"log-level":  logLevel,
	}
	return config.Load(cfgFile, flags)
}

// buildClient resolves credentials and constructs the API client.
// Explicit key/secret from flags, env or config win; otherwise the named
// account (or the only stored account) is loaded from the credential store.
func buildClient(cfg *config.Config) (*zoomphone.Client, error) {
	apiKey := cfg.Zoom.APIKey
	apiSecret := cfg.Zoom.APISecret

	if apiKey == "" || apiSecret == "" {
		account, err := resolveAccount(flagAccount)
		if err != nil {
			return nil, err
		}
		apiKey = account.APIKey
		apiSecret = account.APISecret
	}

	tokens := zoomphone.NewJWTSource(apiKey, apiSecret, cfg.Zoom.TokenLifetime)
	return zoomphone.NewClientWithConfig(cfg.Zoom.Server, tokens,
		cfg.Zoom.RequestTimeout, &cfg.Retry, logger.GetLogger()), nil
}

// resolveAccount loads credentials from the store chain
func resolveAccount(name string) (*auth.Account, error) {
	manager := credentialManager()

	if name != "" {
		return manager.Retrieve(name)
	}

	names, err := manager.List()
	if err != nil {
		return nil, err
	}
	switch len(names) {
	case 0:
		return nil, fmt.Errorf("no credentials found: run 'zpexport auth login' or set ZPEXPORT_API_KEY and ZPEXPORT_API_SECRET")
	case 1:
		return manager.Retrieve(names[0])
	default:
		return nil, fmt.Errorf("multiple accounts stored (%v): pick one with --account", names)
	}
}
