package entities

import (
	"encoding/json"
	"fmt"
)

// Event is an asynchronous notification delivered to the completion router.
// The set of implementations is closed: PermissionResult and ActionResult.
type Event interface {
	EventType() EventType
	isEvent()
}

// EventType tags an Event on the wire.
type EventType string

const (
	EventPermissionResult EventType = "permission_result"
	EventActionResult     EventType = "action_result"
)

// PermissionResult answers a grant request issued by the permission gate.
type PermissionResult struct {
	// Results holds one entry per requested capability; true means granted.
	Results     []bool `json:"results" yaml:"results"`
	RequestCode int    `json:"request_code" yaml:"request_code"`
}

// EventType implements Event.
func (PermissionResult) EventType() EventType { return EventPermissionResult }
func (PermissionResult) isEvent()             {}

// AllGranted reports whether every entry is true. It holds for an empty
// result; see Interrupted.
func (r PermissionResult) AllGranted() bool {
	for _, ok := range r.Results {
		if !ok {
			return false
		}
	}
	return true
}

// Interrupted reports whether the result carries no entries, as when the
// platform dialog was dismissed or access was granted through a settings screen.
// The answer then has to come from the permission backend.
func (r PermissionResult) Interrupted() bool {
	return len(r.Results) == 0
}

// ActionResult carries the picker's answer for a correlation id.
type ActionResult struct {
	// Handle is empty when the user cancelled the picker.
	Handle        ResourceHandle `json:"handle,omitempty" yaml:"handle,omitempty"`
	CorrelationID CorrelationID  `json:"correlation_id" yaml:"correlation_id"`
}

// EventType implements Event.
func (ActionResult) EventType() EventType { return EventActionResult }
func (ActionResult) isEvent()             {}

// Cancelled reports whether the picker returned no handle.
func (r ActionResult) Cancelled() bool {
	return r.Handle.IsZero()
}

// EventEnvelope is the JSON wire format for an Event.
type EventEnvelope struct {
	Permission *PermissionResult `json:"permission,omitempty"`
	Action     *ActionResult     `json:"action,omitempty"`
	Type       EventType         `json:"type" jsonschema:"enum=permission_result,enum=action_result"`
}

// EncodeEvent marshals ev into its wire envelope.
func EncodeEvent(ev Event) ([]byte, error) {
	env := EventEnvelope{}
	switch e := ev.(type) {
	case PermissionResult:
		env.Type = EventPermissionResult
		env.Permission = &e
	case ActionResult:
		env.Type = EventActionResult
		env.Action = &e
	default:
		return nil, fmt.Errorf("unsupported event %T", ev)
	}
	return json.Marshal(env)
}

// DecodeEvent parses a wire envelope back into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var env EventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	switch env.Type {
	case EventPermissionResult:
		if env.Permission == nil {
			return nil, fmt.Errorf("permission_result event without body")
		}
		return *env.Permission, nil
	case EventActionResult:
		if env.Action == nil {
			return nil, fmt.Errorf("action_result event without body")
		}
		return *env.Action, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}
