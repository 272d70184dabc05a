// Package resolver maps opaque resource handles to human-readable paths.
package resolver

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/errors"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

// ExternalStorageAuthority is the document provider for shared storage.
const ExternalStorageAuthority = "com.android.externalstorage.documents"

const primaryVolume = "primary"

var _ ports.DisplayNameResolver = (*Resolver)(nil)

// Resolver decomposes document-provider handles and falls back to a
// data-column query, then to the raw handle text.
type Resolver struct {
	querier     ports.DataColumnQuerier
	logger      *slog.Logger
	storageRoot string
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithStorageRoot sets where the primary volume is mounted.
func WithStorageRoot(root string) Option {
	return func(r *Resolver) {
		if root != "" {
			r.storageRoot = strings.TrimSuffix(root, "/")
		}
	}
}

// WithQuerier sets the data-column fallback.
func WithQuerier(q ports.DataColumnQuerier) Option {
	return func(r *Resolver) {
		r.querier = q
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		storageRoot: entities.DefaultStorageRoot,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the best display name for handle. It never fails: when
// nothing better is known the raw handle text is returned.
func (r *Resolver) Resolve(ctx context.Context, handle entities.ResourceHandle) string {
	if p, ok := r.Locate(handle); ok {
		return p
	}

	if r.querier != nil {
		p, err := r.querier.QueryDataColumn(ctx, handle)
		if err != nil {
			rerr := &errors.ResolveError{Handle: handle, Err: err}
			r.logger.Debug("data column query failed", "error", errors.ToErrorDetail(rerr))
		} else if p != "" {
			return p
		}
	}

	return handle.String()
}

// Locate returns the filesystem path for handles whose structure alone
// identifies one: primary-volume documents, file URIs and absolute paths.
func (r *Resolver) Locate(handle entities.ResourceHandle) (string, bool) {
	raw := handle.String()
	if strings.HasPrefix(raw, "/") {
		return path.Clean(raw), true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return "", false
		}
		return path.Clean(u.Path), true
	case "content":
		if u.Host != ExternalStorageAuthority {
			return "", false
		}
		docID, ok := documentID(u)
		if !ok {
			return "", false
		}
		return r.volumePath(docID)
	default:
		return "", false
	}
}

// volumePath maps "<type>:<relative>" onto the storage root for the primary volume.
func (r *Resolver) volumePath(docID string) (string, bool) {
	volume, rel, ok := strings.Cut(docID, ":")
	if !ok || rel == "" || !strings.EqualFold(volume, primaryVolume) {
		return "", false
	}
	return r.storageRoot + "/" + rel, true
}

// documentID extracts the document id from /document/<id>, /tree/<id> or
// /tree/<id>/document/<id>. The last document id wins.
func documentID(u *url.URL) (string, bool) {
	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")

	var id string
	found := false
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] != "document" && segments[i] != "tree" {
			continue
		}
		decoded, err := url.PathUnescape(segments[i+1])
		if err != nil {
			return "", false
		}
		if segments[i] == "document" || !found {
			id = decoded
			found = true
		}
		i++
	}
	return id, found
}
