package ports

import "github.com/reglet-dev/sysdialog/domain/entities"

// DenialHandler is called when a permission result denies a deferred action.
// Implementations can log, collect metrics, or take other actions.
type DenialHandler interface {
	// OnDenial is called once per dropped action.
	// missing: the capabilities that were requested and not all granted
	// reason: human-readable denial reason
	OnDenial(action entities.PendingAction, missing []entities.Capability, reason string)
}
