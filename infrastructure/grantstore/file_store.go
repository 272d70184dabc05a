// Package grantstore persists long-lived access grants as YAML.
package grantstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	_ ports.AccessStore    = (*FileStore)(nil)
	_ ports.AccessRetainer = (*FileStore)(nil)
)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	fs       afero.Fs
	path     string      // Path to the grants file
	dirPerm  os.FileMode // Permission for created directories
	filePerm os.FileMode // Permission for the grants file
}

func defaultFileStoreConfig() fileStoreConfig {
	return fileStoreConfig{
		fs:       afero.NewOsFs(),
		path:     filepath.Join(os.Getenv("HOME"), ".sysdialog", "access.yaml"),
		dirPerm:  0o755, // User config directory
		filePerm: 0o600, // User-only read/write (secure default)
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the grants file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithFs sets the filesystem the grants file lives on.
func WithFs(fs afero.Fs) FileStoreOption {
	return func(c *fileStoreConfig) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithFilePermissions sets the file permissions for the grants file.
// Default is 0o600 (user-only). Use with caution.
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the directory permissions for the grants directory.
// Default is 0o755.
func WithDirPermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirPerm = perm
	}
}

// FileStore provides file-based persistence for access grants. It doubles as
// the AccessRetainer: retaining a grant loads, merges and saves the file.
type FileStore struct {
	config fileStoreConfig
	mu     sync.Mutex
}

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Load retrieves all persisted grants.
func (s *FileStore) Load() (*entities.AccessGrantSet, error) {
	data, err := afero.ReadFile(s.config.fs, s.config.path)
	if os.IsNotExist(err) {
		// Return empty set if file doesn't exist
		return &entities.AccessGrantSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access store: %w", err)
	}

	var grants entities.AccessGrantSet
	if err := yaml.Unmarshal(data, &grants); err != nil {
		return nil, fmt.Errorf("failed to parse access store: %w", err)
	}
	return &grants, nil
}

// Save persists the grants.
func (s *FileStore) Save(grants *entities.AccessGrantSet) error {
	data, err := yaml.Marshal(grants)
	if err != nil {
		return fmt.Errorf("failed to marshal grants: %w", err)
	}

	dir := filepath.Dir(s.config.path)
	if err := s.config.fs.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create access store directory: %w", err)
	}

	if err := afero.WriteFile(s.config.fs, s.config.path, data, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write access store: %w", err)
	}
	return nil
}

// Retain records grant unless an existing grant already covers it.
func (s *FileStore) Retain(_ context.Context, grant entities.AccessGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grants, err := s.Load()
	if err != nil {
		return err
	}
	if !grants.Add(grant) {
		return nil
	}
	return s.Save(grants)
}

// Covers reports whether a persisted grant includes handle or resolvedPath.
func (s *FileStore) Covers(handle entities.ResourceHandle, resolvedPath string) (bool, error) {
	grants, err := s.Load()
	if err != nil {
		return false, err
	}
	return grants.Covers(handle, resolvedPath), nil
}

// ConfigPath returns the path to the backing store.
func (s *FileStore) ConfigPath() string {
	return s.config.path
}
