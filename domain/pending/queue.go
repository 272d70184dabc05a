package pending

import (
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

var _ ports.PendingStore = (*Queue)(nil)

// Queue keeps deferred actions in arrival order, one per correlation id.
// Correlation ids are shared by every request of a kind, so a newer request
// replaces the older one of the same kind in place.
type Queue struct {
	actions []entities.PendingAction
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Put appends action, or replaces the queued action with the same correlation id.
func (q *Queue) Put(action entities.PendingAction) ([]entities.PendingAction, error) {
	for i, existing := range q.actions {
		if existing.CorrelationID == action.CorrelationID && existing.IsExport() == action.IsExport() {
			q.actions[i] = action
			return []entities.PendingAction{existing}, nil
		}
	}
	q.actions = append(q.actions, action)
	return nil, nil
}

// Drain removes every action in arrival order.
func (q *Queue) Drain() []entities.PendingAction {
	out := q.actions
	q.actions = nil
	return out
}

// Peek returns a copy of the queued actions.
func (q *Queue) Peek() []entities.PendingAction {
	if len(q.actions) == 0 {
		return nil
	}
	return append([]entities.PendingAction(nil), q.actions...)
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	return len(q.actions)
}
