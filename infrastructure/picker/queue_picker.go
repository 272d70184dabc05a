// Package picker provides a PickerSurface for hosts that answer picker
// requests themselves, such as a terminal.
package picker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

var _ ports.PickerSurface = (*QueuePicker)(nil)

// Request is one picker presentation waiting for a selection.
type Request struct {
	PreferredName string
	Kind          entities.ActionKind
	ID            entities.CorrelationID
}

// Select builds the result event for handle. An empty handle is a cancellation.
func (r Request) Select(handle entities.ResourceHandle) entities.ActionResult {
	return entities.ActionResult{CorrelationID: r.ID, Handle: handle}
}

// QueuePicker records presentations; the host takes them and publishes the
// selections later.
type QueuePicker struct {
	logger *slog.Logger
	queue  []Request
	mu     sync.Mutex
}

// NewQueuePicker creates a QueuePicker.
func NewQueuePicker(logger *slog.Logger) *QueuePicker {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueuePicker{logger: logger}
}

// PresentPicker implements ports.PickerSurface.
func (p *QueuePicker) PresentPicker(_ context.Context, kind entities.ActionKind, id entities.CorrelationID, preferredName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, Request{Kind: kind, ID: id, PreferredName: preferredName})
	p.logger.Debug("picker requested", "action", kind, "correlation_id", int(id))
}

// Take removes and returns the queued presentations.
func (p *QueuePicker) Take() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.queue
	p.queue = nil
	return out
}
