// Package gate implements the permission gate that decides whether an action
// may proceed and issues the one-shot grant request when it may not.
package gate

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

// gateConfig holds configuration for the Gate.
type gateConfig struct {
	logger       *slog.Logger
	capabilities entities.CapabilitySet
	requestCode  int
}

func defaultGateConfig() gateConfig {
	return gateConfig{
		logger:       slog.Default(),
		capabilities: entities.DefaultStorageCapabilities(),
		requestCode:  entities.DefaultGateRequestCode,
	}
}

// Option configures the Gate.
type Option func(*gateConfig)

// WithCapabilities sets the required capability set.
func WithCapabilities(caps entities.CapabilitySet) Option {
	return func(c *gateConfig) {
		c.capabilities = caps
	}
}

// WithRequestCode sets the code that tags grant requests and their results.
func WithRequestCode(code int) Option {
	return func(c *gateConfig) {
		c.requestCode = code
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *gateConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Gate tracks a fixed capability set against a PermissionBackend.
// It is not safe for concurrent use; the coordinator serialises access.
type Gate struct {
	backend   ports.PermissionBackend
	requested []entities.Capability
	config    gateConfig
	// outstanding is set between RequestGrant and Resolve.
	outstanding bool
}

// New creates a Gate over backend.
func New(backend ports.PermissionBackend, opts ...Option) *Gate {
	cfg := defaultGateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Gate{backend: backend, config: cfg}
}

// RequestCode returns the code identifying this gate's permission results.
func (g *Gate) RequestCode() int {
	return g.config.requestCode
}

// Capabilities returns the capabilities that apply on the backend's revision.
func (g *Gate) Capabilities() entities.CapabilitySet {
	return g.config.capabilities.Applicable(g.backend.Revision())
}

// Missing returns the applicable capabilities that are not granted, in order.
func (g *Gate) Missing() []entities.Capability {
	var missing []entities.Capability
	for _, c := range g.Capabilities() {
		if !g.backend.IsGranted(c.Name) {
			missing = append(missing, c)
		}
	}
	return missing
}

// AllGranted reports whether every applicable capability is granted.
func (g *Gate) AllGranted() bool {
	return len(g.Missing()) == 0
}

// Outstanding reports whether a grant request is waiting for its result.
func (g *Gate) Outstanding() bool {
	return g.outstanding
}

// RequestGrant asks the backend for exactly the missing capabilities.
// While a request is outstanding further calls do not reach the backend.
// It returns true if a request was issued.
func (g *Gate) RequestGrant(ctx context.Context) bool {
	missing := g.Missing()
	if len(missing) == 0 {
		return false
	}
	if g.outstanding {
		g.config.logger.Debug("grant request already outstanding",
			"request_code", g.config.requestCode,
			"missing", entities.CapabilitySet(missing).Names())
		return false
	}

	g.outstanding = true
	g.requested = missing
	g.config.logger.Info("requesting capabilities",
		"request_code", g.config.requestCode,
		"capabilities", entities.CapabilitySet(missing).Names())
	g.backend.RequestPermissions(ctx, g.config.requestCode, missing)
	return true
}

// Resolve consumes a permission result. Any false entry denies the whole set.
// An interrupted result carries no answers, so the verdict is the backend's
// current state. It returns the verdict and the capabilities the resolved
// request covered.
func (g *Gate) Resolve(result entities.PermissionResult) (bool, []entities.Capability) {
	requested := g.requested
	if requested == nil {
		requested = g.Missing()
	}
	g.outstanding = false
	g.requested = nil
	if result.Interrupted() {
		return g.AllGranted(), requested
	}
	return result.AllGranted(), requested
}
