package entities

// Capability is a named runtime permission required before any action may proceed.
// A capability may only exist on some platform revisions.
type Capability struct {
	// Name is the platform permission name (e.g. "android.permission.READ_EXTERNAL_STORAGE").
	Name string `json:"name" yaml:"name" validate:"required" jsonschema:"required"`

	// MinRevision is the first platform revision the capability applies to (0 = always).
	MinRevision int `json:"min_revision,omitempty" yaml:"min_revision,omitempty" validate:"gte=0"`

	// MaxRevision is the last platform revision the capability applies to (0 = no upper bound).
	MaxRevision int `json:"max_revision,omitempty" yaml:"max_revision,omitempty" validate:"gte=0"`
}

// Platform permission names used by the default storage capability set.
const (
	PermissionReadExternalStorage   = "android.permission.READ_EXTERNAL_STORAGE"
	PermissionWriteExternalStorage  = "android.permission.WRITE_EXTERNAL_STORAGE"
	PermissionManageExternalStorage = "android.permission.MANAGE_EXTERNAL_STORAGE"
)

// Platform revisions where the storage permission model changed.
const (
	RevisionRuntimePermissions = 23 // runtime permission prompts
	RevisionAllFilesAccess     = 30 // all-files access
)

// NewCapability creates a Capability that applies to every revision.
func NewCapability(name string) Capability {
	return Capability{Name: name}
}

// WithRevisions returns a copy of the Capability limited to [min, max].
func (c Capability) WithRevisions(minRev, maxRev int) Capability {
	c.MinRevision = minRev
	c.MaxRevision = maxRev
	return c
}

// AppliesTo reports whether the capability exists on the given platform revision.
func (c Capability) AppliesTo(revision int) bool {
	if c.MinRevision > 0 && revision < c.MinRevision {
		return false
	}
	if c.MaxRevision > 0 && revision > c.MaxRevision {
		return false
	}
	return true
}

// String returns the capability name.
func (c Capability) String() string {
	return c.Name
}

// CapabilitySet is the ordered set of capabilities every action requires.
type CapabilitySet []Capability

// Applicable returns the capabilities that exist on revision, in order.
func (s CapabilitySet) Applicable(revision int) CapabilitySet {
	out := make(CapabilitySet, 0, len(s))
	for _, c := range s {
		if c.AppliesTo(revision) {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the capability names in order.
func (s CapabilitySet) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// DefaultStorageCapabilities returns the external storage capability set.
// Below RevisionRuntimePermissions storage access is granted at install time,
// so nothing applies there.
func DefaultStorageCapabilities() CapabilitySet {
	return CapabilitySet{
		NewCapability(PermissionReadExternalStorage).WithRevisions(RevisionRuntimePermissions, 0),
		NewCapability(PermissionWriteExternalStorage).WithRevisions(RevisionRuntimePermissions, 0),
		NewCapability(PermissionManageExternalStorage).WithRevisions(RevisionAllFilesAccess, 0),
	}
}
