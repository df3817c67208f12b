package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "zpexport"
	keyringIndex   = "__accounts__"
)

// KeyringStore keeps credentials in the operating system keyring
type KeyringStore struct{}

// NewKeyringStore creates a keyring-backed credential store
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// IsAvailable probes the system keyring with a throwaway entry
func (k *KeyringStore) IsAvailable() bool {
	const probe = "__availability_probe__"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(keyringService, probe)
	return true
}

// Store saves an account in the keyring
func (k *KeyringStore) Store(account *Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}

	if err := keyring.Set(keyringService, account.Name, string(data)); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}

	return k.addToIndex(account.Name)
}

// Retrieve gets an account from the keyring
func (k *KeyringStore) Retrieve(name string) (*Account, error) {
	data, err := keyring.Get(keyringService, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
		}
		return nil, fmt.Errorf("failed to read credentials from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}

	return &account, nil
}

// Delete removes an account from the keyring
func (k *KeyringStore) Delete(name string) error {
	if err := keyring.Delete(keyringService, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}

	return k.removeFromIndex(name)
}

// List returns the stored account names. The keyring has no enumeration,
// so an index entry tracks the names alongside the accounts.
func (k *KeyringStore) List() ([]string, error) {
	return k.readIndex()
}

func (k *KeyringStore) readIndex() ([]string, error) {
	data, err := keyring.Get(keyringService, keyringIndex)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read account index: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("failed to decode account index: %w", err)
	}
	return names, nil
}

func (k *KeyringStore) writeIndex(names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode account index: %w", err)
	}
	if err := keyring.Set(keyringService, keyringIndex, string(data)); err != nil {
		return fmt.Errorf("failed to write account index: %w", err)
	}
	return nil
}

func (k *KeyringStore) addToIndex(name string) error {
	names, err := k.readIndex()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return k.writeIndex(append(names, name))
}

func (k *KeyringStore) removeFromIndex(name string) error {
	names, err := k.readIndex()
	if err != nil {
		return err
	}
	filtered := names[:0]
	for _, n := range names {
		if n != name {
			filtered = append(filtered, n)
		}
	}
	return k.writeIndex(filtered)
}
