// Package coordinator owns the deferred-action state and drives requests
// through the permission gate, the picker surface and the completion router.
package coordinator

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reglet-dev/sysdialog/application/resolver"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/gate"
	"github.com/reglet-dev/sysdialog/domain/pending"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

// coordinatorConfig holds configuration for the Coordinator.
type coordinatorConfig struct {
	store         ports.PendingStore
	names         ports.DisplayNameResolver
	retainer      ports.AccessRetainer
	denials       ports.DenialHandler
	logger        *slog.Logger
	now           func() time.Time
	pendingPolicy string
	gateOptions   []gate.Option
}

func defaultCoordinatorConfig() coordinatorConfig {
	return coordinatorConfig{
		logger:        slog.Default(),
		now:           time.Now,
		pendingPolicy: entities.PendingOverwrite,
	}
}

// Option configures the Coordinator.
type Option func(*coordinatorConfig)

// WithConfig applies the pending policy, capability set and gate request code from cfg.
func WithConfig(cfg entities.Config) Option {
	return func(c *coordinatorConfig) {
		if cfg.PendingPolicy != "" {
			c.pendingPolicy = cfg.PendingPolicy
		}
		if len(cfg.Capabilities) > 0 {
			c.gateOptions = append(c.gateOptions, gate.WithCapabilities(cfg.Capabilities))
		}
		if cfg.GateRequestCode != 0 {
			c.gateOptions = append(c.gateOptions, gate.WithRequestCode(cfg.GateRequestCode))
		}
	}
}

// WithPendingPolicy selects the pending-action store by policy name.
func WithPendingPolicy(policy string) Option {
	return func(c *coordinatorConfig) {
		c.pendingPolicy = policy
	}
}

// WithPendingStore uses store instead of one built from the policy.
func WithPendingStore(store ports.PendingStore) Option {
	return func(c *coordinatorConfig) {
		c.store = store
	}
}

// WithGateOptions passes options through to the permission gate.
func WithGateOptions(opts ...gate.Option) Option {
	return func(c *coordinatorConfig) {
		c.gateOptions = append(c.gateOptions, opts...)
	}
}

// WithResolver sets the display-name resolver.
func WithResolver(r ports.DisplayNameResolver) Option {
	return func(c *coordinatorConfig) {
		c.names = r
	}
}

// WithRetainer sets where long-lived access to picked resources is kept.
func WithRetainer(r ports.AccessRetainer) Option {
	return func(c *coordinatorConfig) {
		c.retainer = r
	}
}

// WithDenialHandler sets the handler notified for every action dropped on denial.
func WithDenialHandler(h ports.DenialHandler) Option {
	return func(c *coordinatorConfig) {
		c.denials = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *coordinatorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source used to stamp access grants.
func WithClock(now func() time.Time) Option {
	return func(c *coordinatorConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Coordinator is the owned context for one caller: it holds the pending-action
// store and the permission gate, and serialises every entry point and event.
//
// Picker and permission backends must not deliver their answers synchronously
// from PresentPicker or RequestPermissions. Callbacks run after the
// coordinator's lock is released, so they may call back into it.
type Coordinator struct {
	picker    ports.PickerSurface
	io        ports.ResourceIO
	callbacks ports.Callbacks
	store     ports.PendingStore
	names     ports.DisplayNameResolver
	retainer  ports.AccessRetainer
	denials   ports.DenialHandler
	gate      *gate.Gate
	logger    *slog.Logger
	now       func() time.Time
	mu        sync.Mutex
}

// New creates a Coordinator.
func New(backend ports.PermissionBackend, picker ports.PickerSurface, io ports.ResourceIO, callbacks ports.Callbacks, opts ...Option) (*Coordinator, error) {
	if backend == nil || picker == nil || io == nil || callbacks == nil {
		return nil, fmt.Errorf("permission backend, picker, resource io and callbacks are required")
	}

	cfg := defaultCoordinatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	store := cfg.store
	if store == nil {
		var err error
		store, err = pending.NewStore(cfg.pendingPolicy)
		if err != nil {
			return nil, err
		}
	}

	names := cfg.names
	if names == nil {
		names = resolver.New(resolver.WithLogger(cfg.logger))
	}

	denials := cfg.denials
	if denials == nil {
		denials = &gate.SlogDenialHandler{Logger: cfg.logger}
	}

	gateOpts := append([]gate.Option{gate.WithLogger(cfg.logger)}, cfg.gateOptions...)

	return &Coordinator{
		picker:    picker,
		io:        io,
		callbacks: callbacks,
		store:     store,
		names:     names,
		retainer:  cfg.retainer,
		denials:   denials,
		gate:      gate.New(backend, gateOpts...),
		logger:    cfg.logger,
		now:       cfg.now,
	}, nil
}

// Pending returns a snapshot of the deferred actions.
func (c *Coordinator) Pending() []entities.PendingAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Peek()
}

// Granted reports whether every applicable capability is currently granted.
func (c *Coordinator) Granted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate.AllGranted()
}

// GateRequestCode returns the code carried by this coordinator's permission results.
func (c *Coordinator) GateRequestCode() int {
	return c.gate.RequestCode()
}

// outbox collects terminal callbacks while the lock is held.
type outbox []func(ports.Callbacks)

func (o *outbox) fileSelected(path string, data []byte) {
	*o = append(*o, func(cb ports.Callbacks) { cb.OnFileSelected(path, data) })
}

func (o *outbox) fileSaved(path string) {
	*o = append(*o, func(cb ports.Callbacks) { cb.OnFileSaved(path) })
}

func (o *outbox) folderSelected(path string) {
	*o = append(*o, func(cb ports.Callbacks) { cb.OnFolderSelected(path) })
}

func (o *outbox) folderSaved(path string) {
	*o = append(*o, func(cb ports.Callbacks) { cb.OnFolderSaved(path) })
}

func (o *outbox) exportFailed() {
	*o = append(*o, func(cb ports.Callbacks) { cb.OnExportFailed() })
}

func (o *outbox) importFailed() {
	*o = append(*o, func(cb ports.Callbacks) { cb.OnImportFailed() })
}

// failed queues the failure callback matching action.
func (o *outbox) failed(action entities.PendingAction) {
	if action.FailsAsImport() {
		o.importFailed()
		return
	}
	o.exportFailed()
}

// locked runs fn under the lock and then delivers what it queued.
func (c *Coordinator) locked(fn func(out *outbox) error) error {
	var out outbox

	c.mu.Lock()
	err := fn(&out)
	c.mu.Unlock()

	for _, deliver := range out {
		deliver(c.callbacks)
	}
	return err
}
