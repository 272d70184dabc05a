package pending

import (
	"fmt"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

// NewStore returns the store for a configured pending policy.
// An empty policy selects the single-slot store.
func NewStore(policy string) (ports.PendingStore, error) {
	switch policy {
	case "", entities.PendingOverwrite:
		return NewSlot(), nil
	case entities.PendingQueue:
		return NewQueue(), nil
	case entities.PendingReject:
		return NewRejecting(), nil
	default:
		return nil, fmt.Errorf("unknown pending policy %q", policy)
	}
}
