package ports

import (
	"context"

	"github.com/reglet-dev/sysdialog/domain/entities"
)

// PickerSurface displays the platform's document picker. It is fire-and-forget:
// the selection arrives later as an entities.ActionResult tagged with id.
type PickerSurface interface {
	PresentPicker(ctx context.Context, kind entities.ActionKind, id entities.CorrelationID, preferredName string)
}
