// Package errors provides domain-specific error types for the coordinator.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/reglet-dev/sysdialog/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return entities.NewErrorDetail("internal", err.Error())
}

// PermissionDeniedError reports that at least one required capability was refused.
type PermissionDeniedError struct {
	Missing []entities.Capability
	Kind    entities.ActionKind
}

func (e *PermissionDeniedError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = c.Name
	}
	if len(names) == 0 {
		return fmt.Sprintf("permission denied for %s", e.Kind)
	}
	return fmt.Sprintf("permission denied for %s (missing: %s)", e.Kind, strings.Join(names, ", "))
}

// ToErrorDetail implements DetailedError.
func (e *PermissionDeniedError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("permission", e.Error()).
		WithCode(e.Kind.String()).
		WithDetails(map[string]any{"missing": entities.CapabilitySet(e.Missing).Names()})
}

// ReadError reports that no bytes could be obtained from a handle.
// Empty distinguishes a zero-length read from an I/O failure; callers only see
// OnImportFailed either way.
type ReadError struct {
	Err    error
	Handle entities.ResourceHandle
	Empty  bool
}

func (e *ReadError) Error() string {
	if e.Empty {
		return fmt.Sprintf("read %s: no content", e.Handle)
	}
	return fmt.Sprintf("read %s failed: %v", e.Handle, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ReadError) ToErrorDetail() *entities.ErrorDetail {
	code := "read_failed"
	if e.Empty {
		code = "read_empty"
	}
	return entities.NewErrorDetail("io", e.Error()).
		WithCode(code).
		WithDetails(map[string]any{"handle": e.Handle.String()})
}

// WriteError reports a failed write to a handle.
type WriteError struct {
	Err    error
	Handle entities.ResourceHandle
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s failed: %v", e.Handle, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WriteError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("io", e.Error()).
		WithCode("write_failed").
		WithDetails(map[string]any{"handle": e.Handle.String()})
}

// ResolveError reports a failed display-name lookup. It is never surfaced to
// the caller; the raw handle text is used instead.
type ResolveError struct {
	Err    error
	Handle entities.ResourceHandle
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s failed: %v", e.Handle, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ResolveError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("resolve", e.Error()).
		WithCode("display_name").
		WithDetails(map[string]any{"handle": e.Handle.String()})
}

// BusyError is returned when a deferral is refused because another action is
// still waiting for a permission result.
type BusyError struct {
	Pending   entities.PendingAction
	Requested entities.ActionKind
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("cannot defer %s: %s is still waiting for permission", e.Requested, e.Pending.Kind)
}

// ToErrorDetail implements DetailedError.
func (e *BusyError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("busy", e.Error()).
		WithCode(e.Requested.String()).
		WithDetails(map[string]any{"pending": e.Pending.Kind.String()})
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("config", e.Error()).WithCode(e.Field)
}

// EventError represents an event that could not be encoded, decoded or delivered.
type EventError struct {
	Err error
	Op  string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %s failed: %v", e.Op, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *EventError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("event", e.Error()).WithCode(e.Op)
}
