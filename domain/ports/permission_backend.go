package ports

import (
	"context"

	"github.com/reglet-dev/sysdialog/domain/entities"
)

// PermissionBackend is the platform's runtime permission service.
type PermissionBackend interface {
	// Revision returns the platform revision used to filter version-conditional capabilities.
	Revision() int

	// IsGranted reports whether the named capability is currently granted.
	IsGranted(name string) bool

	// RequestPermissions asks the user for caps. The answer must arrive later
	// as an entities.PermissionResult carrying code; implementations must not
	// deliver it synchronously from within this call.
	RequestPermissions(ctx context.Context, code int, caps []entities.Capability)
}
