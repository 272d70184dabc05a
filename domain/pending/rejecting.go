package pending

import (
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/errors"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

var _ ports.PendingStore = (*Rejecting)(nil)

// Rejecting is a single slot that refuses a second action instead of
// overwriting the first.
type Rejecting struct {
	Slot
}

// NewRejecting creates an empty rejecting store.
func NewRejecting() *Rejecting {
	return &Rejecting{}
}

// Put stores action, or returns a *errors.BusyError if the slot is taken.
func (r *Rejecting) Put(action entities.PendingAction) ([]entities.PendingAction, error) {
	if r.action != nil {
		return nil, &errors.BusyError{Pending: *r.action, Requested: action.Kind}
	}
	return r.Slot.Put(action)
}
