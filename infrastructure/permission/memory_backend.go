// Package permission provides a PermissionBackend for hosts without a
// platform permission service.
package permission

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

var _ ports.PermissionBackend = (*MemoryBackend)(nil)

// Request is one grant request waiting for an answer.
type Request struct {
	Capabilities []entities.Capability
	Code         int
}

// Answer pairs a request with one result per capability.
func (r Request) Answer(results []bool) entities.PermissionResult {
	return entities.PermissionResult{RequestCode: r.Code, Results: results}
}

type memoryBackendConfig struct {
	logger   *slog.Logger
	granted  []string
	revision int
}

// Option configures a MemoryBackend.
type Option func(*memoryBackendConfig)

// WithRevision sets the platform revision reported to the gate.
func WithRevision(rev int) Option {
	return func(c *memoryBackendConfig) {
		c.revision = rev
	}
}

// WithGranted pre-grants the named capabilities.
func WithGranted(names ...string) Option {
	return func(c *memoryBackendConfig) {
		c.granted = append(c.granted, names...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *memoryBackendConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// MemoryBackend keeps grant state in memory. RequestPermissions only queues
// the request; the host answers it later with Take and Apply.
type MemoryBackend struct {
	granted  map[string]bool
	logger   *slog.Logger
	queue    []Request
	revision int
	mu       sync.Mutex
}

// NewMemoryBackend creates a MemoryBackend. The default revision is the
// first one with all-files access.
func NewMemoryBackend(opts ...Option) *MemoryBackend {
	cfg := memoryBackendConfig{
		logger:   slog.Default(),
		revision: entities.RevisionAllFilesAccess,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &MemoryBackend{
		granted:  make(map[string]bool),
		logger:   cfg.logger,
		revision: cfg.revision,
	}
	for _, n := range cfg.granted {
		b.granted[n] = true
	}
	return b
}

// Revision implements ports.PermissionBackend.
func (b *MemoryBackend) Revision() int {
	return b.revision
}

// IsGranted implements ports.PermissionBackend.
func (b *MemoryBackend) IsGranted(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.granted[name]
}

// RequestPermissions implements ports.PermissionBackend.
func (b *MemoryBackend) RequestPermissions(_ context.Context, code int, caps []entities.Capability) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, Request{Code: code, Capabilities: append([]entities.Capability(nil), caps...)})
	b.logger.Debug("permission request queued", "request_code", code, "capabilities", entities.CapabilitySet(caps).Names())
}

// Take removes and returns the queued requests.
func (b *MemoryBackend) Take() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

// Apply records the user's answers for req and returns the result event.
func (b *MemoryBackend) Apply(req Request, results []bool) (entities.PermissionResult, error) {
	if len(results) != 0 && len(results) != len(req.Capabilities) {
		return entities.PermissionResult{}, fmt.Errorf("got %d results for %d capabilities", len(results), len(req.Capabilities))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ok := range results {
		if ok {
			b.granted[req.Capabilities[i].Name] = true
		}
	}
	return req.Answer(results), nil
}

// Revoke withdraws the named capabilities.
func (b *MemoryBackend) Revoke(names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		delete(b.granted, n)
	}
}
