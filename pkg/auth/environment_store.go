package auth

import (
	"errors"
	"fmt"
	"os"
)

const (
	envAPIKey    = "ZPEXPORT_API_KEY"
	envAPISecret = "ZPEXPORT_API_SECRET"

	// EnvironmentAccountName is the name the environment credentials
	// appear under
	EnvironmentAccountName = "environment"
)

// EnvironmentStore exposes credentials from environment variables as a
// read-only account, for CI and scripted use
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-backed credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// IsAvailable reports whether both credential variables are set
func (s *EnvironmentStore) IsAvailable() bool {
	return os.Getenv(envAPIKey) != "" && os.Getenv(envAPISecret) != ""
}

// Store is not supported for environment credentials
func (s *EnvironmentStore) Store(account *Account) error {
	return errors.New("environment credentials are read-only")
}

// Retrieve returns the environment credentials
func (s *EnvironmentStore) Retrieve(name string) (*Account, error) {
	if name != EnvironmentAccountName {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}

	apiKey := os.Getenv(envAPIKey)
	apiSecret := os.Getenv(envAPISecret)
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}

	return &Account{
		Name:      EnvironmentAccountName,
		APIKey:    apiKey,
		APISecret: apiSecret,
	}, nil
}

// Delete is not supported for environment credentials
func (s *EnvironmentStore) Delete(name string) error {
	return errors.New("environment credentials are read-only")
}

// List returns the environment account when the variables are set
func (s *EnvironmentStore) List() ([]string, error) {
	if !s.IsAvailable() {
		return nil, nil
	}
	return []string{EnvironmentAccountName}, nil
}
