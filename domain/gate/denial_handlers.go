package gate

import (
	"log/slog"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

// Ensure implementations satisfy the interface.
var _ ports.DenialHandler = (*SlogDenialHandler)(nil)
var _ ports.DenialHandler = (*NopDenialHandler)(nil)

// SlogDenialHandler logs denials at warn level.
type SlogDenialHandler struct {
	Logger *slog.Logger
}

func (h *SlogDenialHandler) OnDenial(action entities.PendingAction, missing []entities.Capability, reason string) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("permission denied",
		"action", action.Kind.String(),
		"stage", action.Stage().String(),
		"missing", entities.CapabilitySet(missing).Names(),
		"reason", reason)
}

// NopDenialHandler does nothing.
type NopDenialHandler struct{}

func (h *NopDenialHandler) OnDenial(action entities.PendingAction, missing []entities.Capability, reason string) {
}
