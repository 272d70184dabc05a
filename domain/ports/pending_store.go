package ports

import "github.com/reglet-dev/sysdialog/domain/entities"

// PendingStore holds actions deferred behind the permission gate.
type PendingStore interface {
	// Put stores action. replaced reports that an earlier action was discarded
	// to make room. An error means the action was refused and nothing changed.
	Put(action entities.PendingAction) (replaced []entities.PendingAction, err error)

	// Drain removes and returns every stored action in replay order.
	Drain() []entities.PendingAction

	// Peek returns the stored actions without removing them.
	Peek() []entities.PendingAction

	// Len returns the number of stored actions.
	Len() int
}
