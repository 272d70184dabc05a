package pending

import (
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

var _ ports.PendingStore = (*Slot)(nil)

// Slot holds at most one PendingAction.
type Slot struct {
	action *entities.PendingAction
}

// NewSlot creates an empty single-slot store.
func NewSlot() *Slot {
	return &Slot{}
}

// Put stores action, overwriting any earlier one.
func (s *Slot) Put(action entities.PendingAction) ([]entities.PendingAction, error) {
	var replaced []entities.PendingAction
	if s.action != nil {
		replaced = []entities.PendingAction{*s.action}
	}
	s.action = &action
	return replaced, nil
}

// Drain empties the slot.
func (s *Slot) Drain() []entities.PendingAction {
	if s.action == nil {
		return nil
	}
	a := *s.action
	s.action = nil
	return []entities.PendingAction{a}
}

// Peek returns the stored action, if any.
func (s *Slot) Peek() []entities.PendingAction {
	if s.action == nil {
		return nil
	}
	return []entities.PendingAction{*s.action}
}

// Len returns 0 or 1.
func (s *Slot) Len() int {
	if s.action == nil {
		return 0
	}
	return 1
}
