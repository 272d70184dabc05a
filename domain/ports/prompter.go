package ports

import (
	"github.com/reglet-dev/sysdialog/domain/entities"
)

// Prompter handles interactive grant and pick questions for hosts without a
// platform UI.
type Prompter interface {
	// IsInteractive returns true if running in an interactive terminal.
	IsInteractive() bool

	// PromptForCapabilities asks the user about each capability.
	// Returns one entry per capability, true for granted.
	PromptForCapabilities(caps []entities.Capability) ([]bool, error)

	// PromptForHandle asks the user to pick a resource for kind.
	// An empty handle means the user cancelled.
	PromptForHandle(kind entities.ActionKind, preferredName string) (entities.ResourceHandle, error)
}
