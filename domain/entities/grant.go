package entities

import (
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// AccessGrant records long-lived access to a picked resource that survives
// process restarts.
type AccessGrant struct {
	GrantedAt time.Time      `json:"granted_at" yaml:"granted_at"`
	Handle    ResourceHandle `json:"handle" yaml:"handle"`
	// Path is the resolved display path, used for tree coverage checks.
	Path string     `json:"path,omitempty" yaml:"path,omitempty"`
	Kind ActionKind `json:"kind" yaml:"kind"`
	// Tree marks a folder grant covering everything beneath Path.
	Tree bool `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// NewAccessGrant creates a grant for a handle returned by a picker of the given kind.
func NewAccessGrant(kind ActionKind, handle ResourceHandle, resolvedPath string, now time.Time) AccessGrant {
	return AccessGrant{
		Handle:    handle,
		Path:      resolvedPath,
		Kind:      kind,
		Tree:      kind.IsTree(),
		GrantedAt: now,
	}
}

// covers reports whether this grant includes the handle or a resolved path.
func (g AccessGrant) covers(handle ResourceHandle, resolvedPath string) bool {
	if g.Handle == handle {
		return true
	}
	if !g.Tree || g.Path == "" || resolvedPath == "" {
		return false
	}
	root := strings.TrimSuffix(path.Clean(g.Path), "/")
	pattern := escapeMeta(root) + "/**"
	ok, err := doublestar.Match(pattern, path.Clean(resolvedPath))
	return err == nil && ok
}

// escapeMeta backslash-escapes the characters doublestar treats as pattern syntax.
func escapeMeta(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '*', '?', '[', ']', '{', '}':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AccessGrantSet is the persisted collection of access grants.
type AccessGrantSet struct {
	Grants []AccessGrant `json:"grants,omitempty" yaml:"grants,omitempty"`
}

// IsEmpty returns true if no grants are present.
func (s *AccessGrantSet) IsEmpty() bool {
	return s == nil || len(s.Grants) == 0
}

// Covers reports whether any grant includes the handle, either directly or
// through a tree grant above resolvedPath.
func (s *AccessGrantSet) Covers(handle ResourceHandle, resolvedPath string) bool {
	if s == nil {
		return false
	}
	for _, g := range s.Grants {
		if g.covers(handle, resolvedPath) {
			return true
		}
	}
	return false
}

// Add inserts g, replacing an existing grant for the same handle.
// It returns false when g was already covered and nothing changed.
func (s *AccessGrantSet) Add(g AccessGrant) bool {
	for i, existing := range s.Grants {
		if existing.Handle == g.Handle {
			if existing.Tree == g.Tree && existing.Path == g.Path {
				return false
			}
			s.Grants[i] = g
			return true
		}
	}
	if !g.Tree && s.Covers(g.Handle, g.Path) {
		return false
	}
	s.Grants = append(s.Grants, g)
	return true
}

// Remove drops the grant for handle. It returns false if none existed.
func (s *AccessGrantSet) Remove(handle ResourceHandle) bool {
	for i, g := range s.Grants {
		if g.Handle == handle {
			s.Grants = append(s.Grants[:i], s.Grants[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the set.
func (s *AccessGrantSet) Clone() *AccessGrantSet {
	if s == nil {
		return nil
	}
	return &AccessGrantSet{Grants: append([]AccessGrant(nil), s.Grants...)}
}
