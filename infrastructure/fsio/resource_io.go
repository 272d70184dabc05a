// Package fsio implements ResourceIO over a filesystem.
package fsio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
	"github.com/spf13/afero"
)

// ChunkSize is the copy buffer size for reads.
const ChunkSize = 16 * 1024

var _ ports.ResourceIO = (*ResourceIO)(nil)

// ErrUnlocatable is returned for handles that do not map to a path.
var ErrUnlocatable = errors.New("handle does not map to a filesystem path")

// Locator maps a handle to a filesystem path without any external lookup.
type Locator interface {
	Locate(handle entities.ResourceHandle) (string, bool)
}

type resourceIOConfig struct {
	fs       afero.Fs
	locator  Locator
	filePerm os.FileMode
	dirPerm  os.FileMode
}

// Option configures a ResourceIO.
type Option func(*resourceIOConfig)

// WithFs sets the filesystem. Default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(c *resourceIOConfig) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithLocator sets how handles map to paths.
func WithLocator(l Locator) Option {
	return func(c *resourceIOConfig) {
		c.locator = l
	}
}

// WithFilePermissions sets the mode for files created by WriteBytes.
func WithFilePermissions(perm os.FileMode) Option {
	return func(c *resourceIOConfig) {
		c.filePerm = perm
	}
}

// ResourceIO copies bytes to and from handles that resolve to files.
type ResourceIO struct {
	config resourceIOConfig
}

// New creates a ResourceIO.
func New(opts ...Option) *ResourceIO {
	cfg := resourceIOConfig{
		fs:       afero.NewOsFs(),
		filePerm: 0o644,
		dirPerm:  0o755,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ResourceIO{config: cfg}
}

func (r *ResourceIO) path(handle entities.ResourceHandle) (string, error) {
	if r.config.locator != nil {
		if p, ok := r.config.locator.Locate(handle); ok {
			return p, nil
		}
	}
	if filepath.IsAbs(handle.String()) {
		return filepath.Clean(handle.String()), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnlocatable, handle)
}

// ReadBytes reads the whole file behind handle in ChunkSize pieces.
// An empty file yields nil.
func (r *ResourceIO) ReadBytes(ctx context.Context, handle entities.ResourceHandle) ([]byte, error) {
	p, err := r.path(handle)
	if err != nil {
		return nil, err
	}

	f, err := r.config.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	chunk := make([]byte, ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := f.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
	}

	if buf.Len() == 0 {
		return nil, nil
	}
	return buf.Bytes(), nil
}

// WriteBytes truncates the file behind handle and writes data.
func (r *ResourceIO) WriteBytes(ctx context.Context, handle entities.ResourceHandle, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := r.path(handle)
	if err != nil {
		return err
	}

	if err := r.config.fs.MkdirAll(filepath.Dir(p), r.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", p, err)
	}
	f, err := r.config.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, r.config.filePerm)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", p, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return f.Close()
}
