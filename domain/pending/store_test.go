package pending_test

import (
	"errors"
	"testing"

	"github.com/reglet-dev/sysdialog/domain/entities"
	domainerrors "github.com/reglet-dev/sysdialog/domain/errors"
	"github.com/reglet-dev/sysdialog/domain/pending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_HoldsAtMostOneAction(t *testing.T) {
	s := pending.NewSlot()
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Peek())

	replaced, err := s.Put(entities.NewPendingAction(entities.OpenFile))
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.Equal(t, 1, s.Len())

	// The second deferral silently discards the first.
	replaced, err = s.Put(entities.NewPendingAction(entities.OpenFolder))
	require.NoError(t, err)
	require.Len(t, replaced, 1)
	assert.Equal(t, entities.OpenFile, replaced[0].Kind)

	got := s.Peek()
	require.Len(t, got, 1)
	assert.Equal(t, entities.OpenFolder, got[0].Kind)
	assert.Equal(t, entities.OpenFolderID, got[0].CorrelationID)
}

func TestSlot_DrainEmpties(t *testing.T) {
	s := pending.NewSlot()
	_, _ = s.Put(entities.NewPendingAction(entities.SaveFile))

	drained := s.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, entities.SaveFile, drained[0].Kind)
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Drain())
}

func TestQueue_KeepsOnePerCorrelationID(t *testing.T) {
	q := pending.NewQueue()

	_, _ = q.Put(entities.NewPendingAction(entities.OpenFile))
	_, _ = q.Put(entities.NewPendingAction(entities.OpenFolder))

	second := entities.NewPendingAction(entities.OpenFile)
	second.Handle = "content://doc/2"
	replaced, err := q.Put(second)
	require.NoError(t, err)
	require.Len(t, replaced, 1)
	assert.True(t, replaced[0].Handle.IsZero())

	drained := q.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, entities.OpenFile, drained[0].Kind, "replacement keeps the original position")
	assert.Equal(t, entities.ResourceHandle("content://doc/2"), drained[0].Handle)
	assert.Equal(t, entities.OpenFolder, drained[1].Kind)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ExportDoesNotReplaceSavePicker(t *testing.T) {
	q := pending.NewQueue()

	_, _ = q.Put(entities.NewPendingAction(entities.SaveFile))
	export := entities.NewPendingAction(entities.SaveFile)
	export.Handle = "content://doc/out"
	export.Payload = []byte("data")
	replaced, err := q.Put(export)
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.Equal(t, 2, q.Len())

	peeked := q.Peek()
	peeked[0].Kind = entities.OpenFile
	assert.Equal(t, entities.SaveFile, q.Peek()[0].Kind, "Peek returns a copy")
}

func TestRejecting_RefusesSecondAction(t *testing.T) {
	r := pending.NewRejecting()

	_, err := r.Put(entities.NewPendingAction(entities.OpenFile))
	require.NoError(t, err)

	_, err = r.Put(entities.NewPendingAction(entities.SaveFolder))
	require.Error(t, err)

	var busy *domainerrors.BusyError
	require.True(t, errors.As(err, &busy))
	assert.Equal(t, entities.OpenFile, busy.Pending.Kind)
	assert.Equal(t, entities.SaveFolder, busy.Requested)

	drained := r.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, entities.OpenFile, drained[0].Kind)

	_, err = r.Put(entities.NewPendingAction(entities.SaveFolder))
	assert.NoError(t, err, "slot is free again after drain")
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		policy  string
		want    any
		wantErr bool
	}{
		{"", &pending.Slot{}, false},
		{entities.PendingOverwrite, &pending.Slot{}, false},
		{entities.PendingQueue, &pending.Queue{}, false},
		{entities.PendingReject, &pending.Rejecting{}, false},
		{"fifo", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			store, err := pending.NewStore(tt.policy)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}
