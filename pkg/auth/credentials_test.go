package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountValidate(t *testing.T) {
	valid := &Account{Name: "work", APIKey: "key", APISecret: "secret"}
	assert.NoError(t, valid.Validate())

	tests := []Account{
		{APIKey: "key", APISecret: "secret"},
		{Name: "work", APISecret: "secret"},
		{Name: "work", APIKey: "key"},
	}
	for _, account := range tests {
		assert.Error(t, account.Validate())
	}
}

func TestManagerUsesFirstAvailableStore(t *testing.T) {
	unavailable := NewMockStore()
	unavailable.SetAvailable(false)
	fallback := NewMockStore()

	manager := NewManager(unavailable, fallback)

	err := manager.Store(&Account{Name: "work", APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)

	_, err = unavailable.Retrieve("work")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	account, err := fallback.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "key", account.APIKey)
	assert.False(t, account.LastModified.IsZero())
}

func TestManagerRetrieveConsultsAllStores(t *testing.T) {
	first := NewMockStore()
	second := NewMockStore()
	require.NoError(t, second.Store(&Account{Name: "work", APIKey: "key", APISecret: "secret"}))

	manager := NewManager(first, second)

	account, err := manager.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "work", account.Name)

	_, err = manager.Retrieve("missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestManagerNoStoreAvailable(t *testing.T) {
	store := NewMockStore()
	store.SetAvailable(false)

	manager := NewManager(store)
	_, err := manager.GetStore()
	require.Error(t, err)
}

func TestManagerListMergesStores(t *testing.T) {
	first := NewMockStore()
	second := NewMockStore()
	require.NoError(t, first.Store(&Account{Name: "work"}))
	require.NoError(t, second.Store(&Account{Name: "work"}))
	require.NoError(t, second.Store(&Account{Name: "personal"}))

	manager := NewManager(first, second)
	names, err := manager.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"work", "personal"}, names)
}

func TestManagerDelete(t *testing.T) {
	store := NewMockStore()
	require.NoError(t, store.Store(&Account{Name: "work"}))

	manager := NewManager(store)
	require.NoError(t, manager.Delete("work"))

	err := manager.Delete("work")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStoreAt(path, "correct horse battery staple")
	require.NoError(t, err)

	account := &Account{Name: "work", APIKey: "key", APISecret: "secret"}
	require.NoError(t, store.Store(account))

	got, err := store.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "key", got.APIKey)
	assert.Equal(t, "secret", got.APISecret)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, names)

	require.NoError(t, store.Delete("work"))
	_, err = store.Retrieve("work")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStoreAt(path, "right")
	require.NoError(t, err)
	require.NoError(t, store.Store(&Account{Name: "work", APIKey: "k", APISecret: "s"}))

	wrong, err := NewEncryptedFileStoreAt(path, "wrong")
	require.NoError(t, err)
	_, err = wrong.Retrieve("work")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

func TestEncryptedFileStoreRequiresPassphrase(t *testing.T) {
	_, err := NewEncryptedFileStoreAt("x", "")
	require.Error(t, err)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Run("unset", func(t *testing.T) {
		t.Setenv(envAPIKey, "")
		t.Setenv(envAPISecret, "")
		assert.False(t, store.IsAvailable())
	})

	t.Run("set", func(t *testing.T) {
		t.Setenv(envAPIKey, "key")
		t.Setenv(envAPISecret, "secret")
		assert.True(t, store.IsAvailable())

		account, err := store.Retrieve(EnvironmentAccountName)
		require.NoError(t, err)
		assert.Equal(t, "key", account.APIKey)
		assert.Equal(t, "secret", account.APISecret)

		assert.Error(t, store.Store(&Account{Name: "x"}))
		assert.Error(t, store.Delete(EnvironmentAccountName))

		names, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{EnvironmentAccountName}, names)
	})
}
