package auth

import (
	"fmt"
	"sync"
)

// MockStore is an in-memory credential store for testing
type MockStore struct {
	mu        sync.Mutex
	accounts  map[string]*Account
	available bool
}

// NewMockStore creates an available in-memory store
func NewMockStore() *MockStore {
	return &MockStore{
		accounts:  map[string]*Account{},
		available: true,
	}
}

// SetAvailable toggles the store's availability
func (m *MockStore) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

// IsAvailable reports the configured availability
func (m *MockStore) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Store saves an account in memory
func (m *MockStore) Store(account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *account
	m.accounts[account.Name] = &clone
	return nil
}

// Retrieve gets an account from memory
func (m *MockStore) Retrieve(name string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	clone := *account
	return &clone, nil
}

// Delete removes an account from memory
func (m *MockStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	delete(m.accounts, name)
	return nil
}

// List returns the stored account names
func (m *MockStore) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.accounts))
	for name := range m.accounts {
		names = append(names, name)
	}
	return names, nil
}
