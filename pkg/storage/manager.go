package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Manager handles saving downloaded files under a base directory.
// Paths given to its methods are relative to that base.
type Manager struct {
	baseDir string
}

// NewManager creates a storage manager rooted at baseDir
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the base directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Path returns the absolute path for a relative file path
func (m *Manager) Path(relPath string) string {
	return filepath.Join(m.baseDir, filepath.FromSlash(relPath))
}

// Exists checks whether the file already exists on disk
func (m *Manager) Exists(relPath string) bool {
	info, err := os.Stat(m.Path(relPath))
	return err == nil && !info.IsDir()
}

// Save writes data to the file, creating parent directories as needed.
// The write goes to a temp file first and is renamed into place so a
// failed download never leaves a truncated file behind.
func (m *Manager) Save(relPath string, data io.Reader) error {
	fullPath := m.Path(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fullPath)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}
