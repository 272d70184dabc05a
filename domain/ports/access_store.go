package ports

import (
	"context"

	"github.com/reglet-dev/sysdialog/domain/entities"
)

// AccessStore provides persistence for long-lived access grants.
type AccessStore interface {
	// Load retrieves all persisted grants.
	// Returns an empty AccessGrantSet (not error) if nothing was persisted yet.
	Load() (*entities.AccessGrantSet, error)

	// Save persists the grants.
	Save(grants *entities.AccessGrantSet) error

	// ConfigPath returns the path to the backing store (for user messaging).
	ConfigPath() string
}

// AccessRetainer keeps access to a picked resource across process restarts.
// Retention is best-effort; callers log failures and carry on.
type AccessRetainer interface {
	Retain(ctx context.Context, grant entities.AccessGrant) error
}
