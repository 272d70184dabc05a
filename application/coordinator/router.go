package coordinator

import (
	"context"
	"fmt"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/errors"
)

// HandleEvent routes a permission or picker result. Events that do not belong
// to this coordinator are logged and dropped; only an unsupported event type
// is an error.
func (c *Coordinator) HandleEvent(ctx context.Context, ev entities.Event) error {
	switch e := ev.(type) {
	case entities.PermissionResult:
		return c.locked(func(out *outbox) error {
			c.onPermissionResult(ctx, e, out)
			return nil
		})
	case entities.ActionResult:
		return c.locked(func(out *outbox) error {
			c.onActionResult(ctx, e, out)
			return nil
		})
	default:
		return &errors.EventError{Op: "route", Err: fmt.Errorf("unsupported event %T", ev)}
	}
}

func (c *Coordinator) onPermissionResult(ctx context.Context, result entities.PermissionResult, out *outbox) {
	if result.RequestCode != c.gate.RequestCode() {
		c.logger.Debug("ignoring permission result for another request",
			"request_code", result.RequestCode,
			"expected", c.gate.RequestCode())
		return
	}

	granted, requested := c.gate.Resolve(result)
	actions := c.store.Drain()

	if !granted {
		reason := "refused by user"
		if result.Interrupted() {
			reason = "request interrupted"
		}
		for _, action := range actions {
			c.logger.Info("dropping deferred action",
				"error", errors.ToErrorDetail(&errors.PermissionDeniedError{Kind: action.Kind, Missing: requested}))
			c.denials.OnDenial(action, requested, reason)
			out.failed(action)
		}
		return
	}

	c.logger.Debug("capabilities granted", "replaying", len(actions))
	for _, action := range actions {
		c.perform(ctx, action, out)
	}
}

func (c *Coordinator) onActionResult(ctx context.Context, result entities.ActionResult, out *outbox) {
	kind, ok := entities.KindForCorrelation(result.CorrelationID)
	if !ok {
		c.logger.Debug("ignoring action result with unknown correlation id",
			"correlation_id", int(result.CorrelationID))
		return
	}

	if result.Cancelled() {
		c.logger.Debug("picker cancelled", "action", kind)
		return
	}

	if !c.gate.AllGranted() {
		action := entities.NewPendingAction(kind)
		action.Handle = result.Handle
		if err := c.deferAction(ctx, action); err != nil {
			out.failed(action)
		}
		return
	}

	c.complete(ctx, kind, result.Handle, out)
}

// complete turns a picked handle into the terminal callback for kind.
func (c *Coordinator) complete(ctx context.Context, kind entities.ActionKind, handle entities.ResourceHandle, out *outbox) {
	switch kind {
	case entities.OpenFile:
		name := c.names.Resolve(ctx, handle)
		c.retain(ctx, kind, handle, name)

		data, err := c.io.ReadBytes(ctx, handle)
		if err == nil && len(data) == 0 {
			err = &errors.ReadError{Handle: handle, Empty: true}
		} else if err != nil {
			err = &errors.ReadError{Handle: handle, Err: err}
		}
		if err != nil {
			c.logger.Warn("import failed", "error", errors.ToErrorDetail(err))
			out.importFailed()
			return
		}
		out.fileSelected(name, data)

	case entities.SaveFile:
		out.fileSaved(handle.String())

	case entities.OpenFolder:
		name := c.names.Resolve(ctx, handle)
		c.retain(ctx, kind, handle, name)
		out.folderSelected(name)

	case entities.SaveFolder:
		name := c.names.Resolve(ctx, handle)
		c.retain(ctx, kind, handle, name)
		out.folderSaved(name)
	}
}

// retain keeps long-lived access to handle. Failures are logged and ignored.
func (c *Coordinator) retain(ctx context.Context, kind entities.ActionKind, handle entities.ResourceHandle, resolved string) {
	if c.retainer == nil {
		return
	}
	grant := entities.NewAccessGrant(kind, handle, resolved, c.now())
	if err := c.retainer.Retain(ctx, grant); err != nil {
		c.logger.Warn("could not retain access", "handle", handle.String(), "error", errors.ToErrorDetail(err))
	}
}
