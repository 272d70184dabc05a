package coordinator

import (
	"context"
	stderrors "errors"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/errors"
)

var errNoDestination = stderrors.New("no destination handle")

// OpenFile asks the user for a document to read.
// The error is non-nil only when the pending store refuses the deferral.
func (c *Coordinator) OpenFile(ctx context.Context) error {
	return c.dispatch(ctx, entities.NewPendingAction(entities.OpenFile))
}

// SaveFile asks the user where to create a document, suggesting preferredName.
func (c *Coordinator) SaveFile(ctx context.Context, preferredName string) error {
	action := entities.NewPendingAction(entities.SaveFile)
	action.PreferredName = preferredName
	return c.dispatch(ctx, action)
}

// OpenFolder asks the user for a directory tree to read.
func (c *Coordinator) OpenFolder(ctx context.Context) error {
	return c.dispatch(ctx, entities.NewPendingAction(entities.OpenFolder))
}

// SaveFolder asks the user for a directory tree to write.
func (c *Coordinator) SaveFolder(ctx context.Context) error {
	return c.dispatch(ctx, entities.NewPendingAction(entities.SaveFolder))
}

// ExportData writes payload to a handle obtained earlier from SaveFile.
// Success is silent; failure is reported through OnExportFailed. Like every
// other action it waits behind the gate, even without a handle.
func (c *Coordinator) ExportData(ctx context.Context, payload []byte, handle entities.ResourceHandle) error {
	action := entities.NewPendingAction(entities.SaveFile)
	action.Handle = handle
	action.Payload = payload
	if action.Payload == nil {
		action.Payload = []byte{}
	}
	return c.dispatch(ctx, action)
}

func (c *Coordinator) dispatch(ctx context.Context, action entities.PendingAction) error {
	return c.locked(func(out *outbox) error {
		if !c.gate.AllGranted() {
			return c.deferAction(ctx, action)
		}
		c.perform(ctx, action, out)
		return nil
	})
}

// deferAction stores action behind the gate and asks for the missing capabilities.
func (c *Coordinator) deferAction(ctx context.Context, action entities.PendingAction) error {
	replaced, err := c.store.Put(action)
	if err != nil {
		c.logger.Warn("deferral refused", "action", action.Kind, "error", errors.ToErrorDetail(err))
		return err
	}
	for _, lost := range replaced {
		c.logger.Warn("pending action overwritten",
			"lost", lost.Kind,
			"lost_stage", lost.Stage(),
			"by", action.Kind)
	}
	c.logger.Debug("action deferred", "action", action.Kind, "stage", action.Stage(), "pending", c.store.Len())
	c.gate.RequestGrant(ctx)
	return nil
}

// perform runs a permitted action from whatever stage it reached.
func (c *Coordinator) perform(ctx context.Context, action entities.PendingAction, out *outbox) {
	switch action.Stage() {
	case entities.StageExport:
		c.export(ctx, action, out)
	case entities.StageResult:
		c.complete(ctx, action.Kind, action.Handle, out)
	default:
		c.logger.Debug("presenting picker", "action", action.Kind, "correlation_id", int(action.CorrelationID))
		c.picker.PresentPicker(ctx, action.Kind, action.CorrelationID, action.PreferredName)
	}
}

func (c *Coordinator) export(ctx context.Context, action entities.PendingAction, out *outbox) {
	if action.Handle.IsZero() {
		c.logger.Warn("export without destination", "error", errors.ToErrorDetail(&errors.WriteError{Err: errNoDestination}))
		out.exportFailed()
		return
	}
	if err := c.io.WriteBytes(ctx, action.Handle, action.Payload); err != nil {
		werr := &errors.WriteError{Handle: action.Handle, Err: err}
		c.logger.Warn("export failed", "error", errors.ToErrorDetail(werr))
		out.exportFailed()
		return
	}
	c.logger.Debug("export written", "handle", action.Handle.String(), "bytes", len(action.Payload))
}
