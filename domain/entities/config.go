package entities

// Pending policies decide what happens when a second action is deferred while
// another is still waiting for a permission result.
const (
	// PendingOverwrite keeps a single slot; the newer action silently replaces the older.
	PendingOverwrite = "overwrite"
	// PendingQueue keeps one action per correlation id, replayed in order.
	PendingQueue = "queue"
	// PendingReject refuses new deferrals while one is outstanding.
	PendingReject = "reject"
)

// DefaultStorageRoot is where primary external storage is mounted.
const DefaultStorageRoot = "/storage/emulated/0"

// Config represents coordinator configuration settings.
type Config struct {
	// PendingPolicy selects the pending-action store behaviour.
	PendingPolicy string `json:"pending_policy,omitempty" yaml:"pending_policy,omitempty" validate:"omitempty,oneof=overwrite queue reject" jsonschema:"enum=overwrite,enum=queue,enum=reject"`

	// StorageRoot is the mount point used when decomposing document handles.
	StorageRoot string `json:"storage_root" yaml:"storage_root" validate:"required"`

	// AccessStorePath is where long-lived access grants are persisted.
	// Empty disables persistence.
	AccessStorePath string `json:"access_store_path,omitempty" yaml:"access_store_path,omitempty"`

	// Capabilities overrides the default storage capability set.
	Capabilities CapabilitySet `json:"capabilities,omitempty" yaml:"capabilities,omitempty" validate:"dive"`

	Log LogConfig `json:"log" yaml:"log"`

	// GateRequestCode identifies permission-result events.
	GateRequestCode int `json:"gate_request_code" yaml:"gate_request_code" validate:"min=5,max=65535"`
}

// LogConfig controls the logcat-style logger.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Tag   string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// DefaultConfig returns the default coordinator configuration.
func DefaultConfig() Config {
	return Config{
		PendingPolicy:   PendingOverwrite,
		GateRequestCode: DefaultGateRequestCode,
		StorageRoot:     DefaultStorageRoot,
		Capabilities:    DefaultStorageCapabilities(),
		Log: LogConfig{
			Level: "info",
			Tag:   "sysdialog",
		},
	}
}

// ConfigOption is a functional option for configuring the coordinator.
type ConfigOption func(*Config)

// WithPendingPolicy sets the pending-action policy.
func WithPendingPolicy(policy string) ConfigOption {
	return func(c *Config) {
		c.PendingPolicy = policy
	}
}

// WithGateRequestCode sets the permission request code.
func WithGateRequestCode(code int) ConfigOption {
	return func(c *Config) {
		c.GateRequestCode = code
	}
}

// WithStorageRoot sets the primary storage mount point.
func WithStorageRoot(root string) ConfigOption {
	return func(c *Config) {
		if root != "" {
			c.StorageRoot = root
		}
	}
}

// WithAccessStorePath enables persisted access grants at path.
func WithAccessStorePath(path string) ConfigOption {
	return func(c *Config) {
		c.AccessStorePath = path
	}
}

// WithCapabilities replaces the required capability set.
func WithCapabilities(caps CapabilitySet) ConfigOption {
	return func(c *Config) {
		c.Capabilities = caps
	}
}

// WithLogLevel sets the logging verbosity level.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.Log.Level = level
	}
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
