// Package sysdialog wires a Coordinator from configuration: the resolver,
// file-backed resource I/O and the persisted access store.
package sysdialog

import (
	"log/slog"

	"github.com/reglet-dev/sysdialog/application/coordinator"
	"github.com/reglet-dev/sysdialog/application/resolver"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
	"github.com/reglet-dev/sysdialog/infrastructure/fsio"
	"github.com/reglet-dev/sysdialog/infrastructure/grantstore"
	"github.com/spf13/afero"
)

type options struct {
	fs       afero.Fs
	querier  ports.DataColumnQuerier
	denials  ports.DenialHandler
	logger   *slog.Logger
	resource ports.ResourceIO
}

// Option configures New.
type Option func(*options)

// WithFs sets the filesystem used for resource I/O and the access store.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithQuerier sets the data-column fallback used by the resolver.
func WithQuerier(q ports.DataColumnQuerier) Option {
	return func(o *options) {
		o.querier = q
	}
}

// WithDenialHandler sets the handler notified when a deferred action is denied.
func WithDenialHandler(h ports.DenialHandler) Option {
	return func(o *options) {
		o.denials = h
	}
}

// WithResourceIO replaces the filesystem resource I/O.
func WithResourceIO(rio ports.ResourceIO) Option {
	return func(o *options) {
		o.resource = rio
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New validates cfg and builds a Coordinator around the platform collaborators.
func New(cfg entities.Config, backend ports.PermissionBackend, picker ports.PickerSurface, callbacks ports.Callbacks, opts ...Option) (*coordinator.Coordinator, error) {
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	o := options{fs: afero.NewOsFs(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	names := resolver.New(
		resolver.WithStorageRoot(cfg.StorageRoot),
		resolver.WithQuerier(o.querier),
		resolver.WithLogger(o.logger),
	)

	rio := o.resource
	if rio == nil {
		rio = fsio.New(fsio.WithFs(o.fs), fsio.WithLocator(names))
	}

	copts := []coordinator.Option{
		coordinator.WithConfig(cfg),
		coordinator.WithResolver(names),
		coordinator.WithLogger(o.logger),
	}
	if cfg.AccessStorePath != "" {
		store := grantstore.NewFileStore(grantstore.WithFs(o.fs), grantstore.WithPath(cfg.AccessStorePath))
		copts = append(copts, coordinator.WithRetainer(store))
	}
	if o.denials != nil {
		copts = append(copts, coordinator.WithDenialHandler(o.denials))
	}

	return coordinator.New(backend, picker, rio, callbacks, copts...)
}
