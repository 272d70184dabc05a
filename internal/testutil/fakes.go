package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

var (
	_ ports.PermissionBackend = (*Backend)(nil)
	_ ports.PickerSurface     = (*Picker)(nil)
	_ ports.Callbacks         = (*Callbacks)(nil)
	_ ports.ResourceIO        = (*ResourceIO)(nil)
	_ ports.DataColumnQuerier = (*Querier)(nil)
	_ ports.AccessRetainer    = (*Retainer)(nil)
)

// GrantRequest records one PermissionBackend.RequestPermissions call.
type GrantRequest struct {
	Caps []entities.Capability
	Code int
}

// Backend is an in-memory PermissionBackend that records requests.
type Backend struct {
	granted  map[string]bool
	Requests []GrantRequest
	Rev      int
	mu       sync.Mutex
}

// NewBackend creates a backend on revision with the named capabilities granted.
func NewBackend(revision int, granted ...string) *Backend {
	b := &Backend{Rev: revision, granted: make(map[string]bool)}
	b.Grant(granted...)
	return b
}

func (b *Backend) Revision() int { return b.Rev }

func (b *Backend) IsGranted(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.granted[name]
}

func (b *Backend) RequestPermissions(_ context.Context, code int, caps []entities.Capability) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Requests = append(b.Requests, GrantRequest{Code: code, Caps: append([]entities.Capability(nil), caps...)})
}

// Grant marks the named capabilities as granted.
func (b *Backend) Grant(names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		b.granted[n] = true
	}
}

// Revoke marks the named capabilities as not granted.
func (b *Backend) Revoke(names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		delete(b.granted, n)
	}
}

// GrantAll grants every capability in set.
func (b *Backend) GrantAll(set entities.CapabilitySet) {
	b.Grant(set.Names()...)
}

// RequestCount returns the number of requests issued so far.
func (b *Backend) RequestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Requests)
}

// PickRequest records one PickerSurface.PresentPicker call.
type PickRequest struct {
	PreferredName string
	Kind          entities.ActionKind
	ID            entities.CorrelationID
}

// Picker records picker presentations.
type Picker struct {
	Requests []PickRequest
	mu       sync.Mutex
}

func (p *Picker) PresentPicker(_ context.Context, kind entities.ActionKind, id entities.CorrelationID, preferredName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Requests = append(p.Requests, PickRequest{Kind: kind, ID: id, PreferredName: preferredName})
}

// Count returns the number of presentations.
func (p *Picker) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}

// Call is one recorded terminal callback.
type Call struct {
	Name string
	Path string
	Data []byte
}

// Callbacks records every terminal callback in order.
type Callbacks struct {
	// OnSaved runs inside OnFileSaved, after recording; used to test re-entry.
	OnSaved func(path string)
	Calls   []Call
	mu      sync.Mutex
}

func (c *Callbacks) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, call)
}

func (c *Callbacks) OnFileSelected(path string, data []byte) {
	c.record(Call{Name: "OnFileSelected", Path: path, Data: data})
}

func (c *Callbacks) OnFileSaved(path string) {
	c.record(Call{Name: "OnFileSaved", Path: path})
	if c.OnSaved != nil {
		c.OnSaved(path)
	}
}

func (c *Callbacks) OnFolderSelected(path string) {
	c.record(Call{Name: "OnFolderSelected", Path: path})
}

func (c *Callbacks) OnFolderSaved(path string) {
	c.record(Call{Name: "OnFolderSaved", Path: path})
}

func (c *Callbacks) OnExportFailed() {
	c.record(Call{Name: "OnExportFailed"})
}

func (c *Callbacks) OnImportFailed() {
	c.record(Call{Name: "OnImportFailed"})
}

// Names returns the recorded callback names in order.
func (c *Callbacks) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		names[i] = call.Name
	}
	return names
}

// Write records one ResourceIO.WriteBytes call.
type Write struct {
	Handle entities.ResourceHandle
	Data   []byte
}

// ResourceIO serves reads from an in-memory map and records writes.
type ResourceIO struct {
	Files    map[entities.ResourceHandle][]byte
	ReadErr  error
	WriteErr error
	Reads    []entities.ResourceHandle
	Writes   []Write
	mu       sync.Mutex
}

// NewResourceIO creates a ResourceIO with no files.
func NewResourceIO() *ResourceIO {
	return &ResourceIO{Files: make(map[entities.ResourceHandle][]byte)}
}

func (r *ResourceIO) ReadBytes(_ context.Context, handle entities.ResourceHandle) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads = append(r.Reads, handle)
	if r.ReadErr != nil {
		return nil, r.ReadErr
	}
	data, ok := r.Files[handle]
	if !ok {
		return nil, fmt.Errorf("no such document: %s", handle)
	}
	return data, nil
}

func (r *ResourceIO) WriteBytes(_ context.Context, handle entities.ResourceHandle, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Writes = append(r.Writes, Write{Handle: handle, Data: append([]byte(nil), data...)})
	if r.WriteErr != nil {
		return r.WriteErr
	}
	r.Files[handle] = append([]byte(nil), data...)
	return nil
}

// Querier answers data-column queries from a map.
type Querier struct {
	Paths map[entities.ResourceHandle]string
	Err   error
}

func (q *Querier) QueryDataColumn(_ context.Context, handle entities.ResourceHandle) (string, error) {
	if q.Err != nil {
		return "", q.Err
	}
	return q.Paths[handle], nil
}

// Retainer records retained grants.
type Retainer struct {
	Err    error
	Grants []entities.AccessGrant
	mu     sync.Mutex
}

func (r *Retainer) Retain(_ context.Context, grant entities.AccessGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Grants = append(r.Grants, grant)
	return nil
}
