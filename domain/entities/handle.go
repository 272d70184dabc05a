package entities

// ResourceHandle is an opaque token issued by the picker surface, usually a
// document-provider URI. The empty handle means "no handle" (picker cancelled).
type ResourceHandle string

// IsZero reports whether the handle is absent.
func (h ResourceHandle) IsZero() bool {
	return h == ""
}

// String returns the raw handle text.
func (h ResourceHandle) String() string {
	return string(h)
}
