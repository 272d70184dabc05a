package ports

import (
	"context"

	"github.com/reglet-dev/sysdialog/domain/entities"
)

// DisplayNameResolver turns a handle into a human-readable identifier.
// Resolve never fails; the raw handle text is the worst case.
type DisplayNameResolver interface {
	Resolve(ctx context.Context, handle entities.ResourceHandle) string
}

// DataColumnQuerier looks up the filesystem path column the platform's media
// index stores for a handle.
type DataColumnQuerier interface {
	QueryDataColumn(ctx context.Context, handle entities.ResourceHandle) (string, error)
}
