package permission_test

import (
	"context"
	"testing"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/gate"
	"github.com/reglet-dev/sysdialog/infrastructure/permission"
	"github.com/reglet-dev/sysdialog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend_RequestIsQueued(t *testing.T) {
	b := permission.NewMemoryBackend(
		permission.WithRevision(29),
		permission.WithGranted(entities.PermissionReadExternalStorage),
		permission.WithLogger(testutil.DiscardLogger()),
	)
	g := gate.New(b, gate.WithLogger(testutil.DiscardLogger()))

	require.True(t, g.RequestGrant(context.Background()))

	reqs := b.Take()
	require.Len(t, reqs, 1)
	assert.Equal(t, entities.DefaultGateRequestCode, reqs[0].Code)
	assert.Equal(t, []string{entities.PermissionWriteExternalStorage}, entities.CapabilitySet(reqs[0].Capabilities).Names())
	assert.Empty(t, b.Take(), "take drains the queue")
}

func TestMemoryBackend_Apply(t *testing.T) {
	b := permission.NewMemoryBackend(permission.WithLogger(testutil.DiscardLogger()))
	assert.Equal(t, entities.RevisionAllFilesAccess, b.Revision())

	req := permission.Request{
		Code: 1234,
		Capabilities: []entities.Capability{
			entities.NewCapability(entities.PermissionReadExternalStorage),
			entities.NewCapability(entities.PermissionWriteExternalStorage),
		},
	}

	result, err := b.Apply(req, []bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, entities.PermissionResult{RequestCode: 1234, Results: []bool{true, false}}, result)
	assert.True(t, b.IsGranted(entities.PermissionReadExternalStorage))
	assert.False(t, b.IsGranted(entities.PermissionWriteExternalStorage))

	_, err = b.Apply(req, []bool{true})
	assert.Error(t, err)

	result, err = b.Apply(req, nil)
	require.NoError(t, err)
	assert.True(t, result.Interrupted())

	b.Revoke(entities.PermissionReadExternalStorage)
	assert.False(t, b.IsGranted(entities.PermissionReadExternalStorage))
}
