package ports

import (
	"context"

	"github.com/reglet-dev/sysdialog/domain/entities"
)

// ResourceIO copies bytes to and from a resolved resource handle.
type ResourceIO interface {
	// ReadBytes returns the full content behind handle.
	ReadBytes(ctx context.Context, handle entities.ResourceHandle) ([]byte, error)

	// WriteBytes replaces the content behind handle with data.
	WriteBytes(ctx context.Context, handle entities.ResourceHandle, data []byte) error
}
