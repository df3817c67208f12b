package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Account holds a named set of Zoom API credentials
type Account struct {
	Name         string    `json:"name"`
	APIKey       string    `json:"api_key"`
	APISecret    string    `json:"api_secret"`
	LastModified time.Time `json:"last_modified"`
}

// Validate checks that the account has everything needed to mint tokens
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name is required")
	}
	if a.APIKey == "" {
		return errors.New("API key is required")
	}
	if a.APISecret == "" {
		return errors.New("API secret is required")
	}
	return nil
}

// CredentialStore is the interface for credential storage backends
type CredentialStore interface {
	// Store saves an account's credentials
	Store(account *Account) error

	// Retrieve gets an account's credentials by name
	Retrieve(name string) (*Account, error)

	// Delete removes an account's credentials
	Delete(name string) error

	// List returns all stored account names
	List() ([]string, error)

	// IsAvailable checks if this storage method works on this system
	IsAvailable() bool
}

// ErrAccountNotFound is returned when an account does not exist in a store
var ErrAccountNotFound = errors.New("account not found")

// Manager tries credential stores in preference order and settles on the
// first one that is available
type Manager struct {
	stores []CredentialStore

	mu     sync.Mutex
	active CredentialStore
}

// NewManager creates a credential manager over the given stores, in
// preference order
func NewManager(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// GetStore returns the first available store
func (m *Manager) GetStore() (CredentialStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return m.active, nil
	}

	for _, store := range m.stores {
		if store.IsAvailable() {
			m.active = store
			return store, nil
		}
	}

	return nil, errors.New("no credential storage method is available")
}

// Store saves an account using the active store
func (m *Manager) Store(account *Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	store, err := m.GetStore()
	if err != nil {
		return err
	}

	account.LastModified = time.Now()
	return store.Store(account)
}

// Retrieve gets an account by name. Every store is consulted so accounts
// saved under an earlier backend remain reachable.
func (m *Manager) Retrieve(name string) (*Account, error) {
	for _, store := range m.stores {
		if !store.IsAvailable() {
			continue
		}
		account, err := store.Retrieve(name)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
}

// Delete removes an account from every store that has it
func (m *Manager) Delete(name string) error {
	found := false
	for _, store := range m.stores {
		if !store.IsAvailable() {
			continue
		}
		err := store.Delete(name)
		if err == nil {
			found = true
			continue
		}
		if !errors.Is(err, ErrAccountNotFound) {
			return err
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	return nil
}

// List returns the union of account names across all available stores
func (m *Manager) List() ([]string, error) {
	seen := map[string]bool{}
	var names []string

	for _, store := range m.stores {
		if !store.IsAvailable() {
			continue
		}
		stored, err := store.List()
		if err != nil {
			return nil, err
		}
		for _, name := range stored {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names, nil
}
