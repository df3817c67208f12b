package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize        = 16
	keySize         = 32
	pbkdf2Iters     = 100_000
	credentialsFile = "credentials.enc"
)

// EncryptedFileStore keeps credentials in an AES-GCM encrypted file, for
// systems without a usable keyring. The encryption key is derived from a
// passphrase with PBKDF2.
type EncryptedFileStore struct {
	path       string
	passphrase string
}

// NewEncryptedFileStore creates a file-backed credential store under the
// user's config directory
func NewEncryptedFileStore(passphrase string) (*EncryptedFileStore, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}

	dir := filepath.Join(configDir, "zpexport")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &EncryptedFileStore{
		path:       filepath.Join(dir, credentialsFile),
		passphrase: passphrase,
	}, nil
}

// NewEncryptedFileStoreAt creates a store at an explicit path
func NewEncryptedFileStoreAt(path, passphrase string) (*EncryptedFileStore, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}
	return &EncryptedFileStore{path: path, passphrase: passphrase}, nil
}

// IsAvailable checks whether the store's directory is writable
func (e *EncryptedFileStore) IsAvailable() bool {
	dir := filepath.Dir(e.path)
	probe, err := os.CreateTemp(dir, ".probe*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

// Store saves an account in the encrypted file
func (e *EncryptedFileStore) Store(account *Account) error {
	accounts, err := e.load()
	if err != nil {
		return err
	}

	accounts[account.Name] = account
	return e.save(accounts)
}

// Retrieve gets an account from the encrypted file
func (e *EncryptedFileStore) Retrieve(name string) (*Account, error) {
	accounts, err := e.load()
	if err != nil {
		return nil, err
	}

	account, ok := accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	return account, nil
}

// Delete removes an account from the encrypted file
func (e *EncryptedFileStore) Delete(name string) error {
	accounts, err := e.load()
	if err != nil {
		return err
	}

	if _, ok := accounts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}

	delete(accounts, name)
	return e.save(accounts)
}

// List returns the stored account names
func (e *EncryptedFileStore) List() ([]string, error) {
	accounts, err := e.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	return names, nil
}

// load decrypts and decodes the credentials file. A missing file is an
// empty store, not an error.
func (e *EncryptedFileStore) load() (map[string]*Account, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Account{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	plaintext, err := e.decrypt(data)
	if err != nil {
		return nil, err
	}

	var accounts map[string]*Account
	if err := json.Unmarshal(plaintext, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	return accounts, nil
}

func (e *EncryptedFileStore) save(accounts map[string]*Account) error {
	plaintext, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	ciphertext, err := e.encrypt(plaintext)
	if err != nil {
		return err
	}

	if err := os.WriteFile(e.path, ciphertext, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// encrypt produces salt || nonce || AES-GCM ciphertext
func (e *EncryptedFileStore) encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := e.cipher(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func (e *EncryptedFileStore) decrypt(data []byte) ([]byte, error) {
	if len(data) < saltSize {
		return nil, errors.New("credentials file is corrupt")
	}
	salt := data[:saltSize]

	gcm, err := e.cipher(salt)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < saltSize+nonceSize {
		return nil, errors.New("credentials file is corrupt")
	}
	nonce := data[saltSize : saltSize+nonceSize]
	ciphertext := data[saltSize+nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.New("failed to decrypt credentials: wrong passphrase or corrupt file")
	}
	return plaintext, nil
}

func (e *EncryptedFileStore) cipher(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(e.passphrase), salt, pbkdf2Iters, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
