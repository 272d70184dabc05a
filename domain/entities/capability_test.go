package entities_test

import (
	"testing"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestCapability_AppliesTo(t *testing.T) {
	c := entities.NewCapability("x").WithRevisions(23, 29)

	assert.False(t, c.AppliesTo(22))
	assert.True(t, c.AppliesTo(23))
	assert.True(t, c.AppliesTo(29))
	assert.False(t, c.AppliesTo(30))

	assert.True(t, entities.NewCapability("y").AppliesTo(1), "unbounded capability applies everywhere")
	assert.Equal(t, "x", c.String())
}

func TestDefaultStorageCapabilities(t *testing.T) {
	set := entities.DefaultStorageCapabilities()

	assert.Empty(t, set.Applicable(21))
	assert.Equal(t, []string{
		entities.PermissionReadExternalStorage,
		entities.PermissionWriteExternalStorage,
	}, set.Applicable(29).Names())
	assert.Equal(t, []string{
		entities.PermissionReadExternalStorage,
		entities.PermissionWriteExternalStorage,
		entities.PermissionManageExternalStorage,
	}, set.Applicable(34).Names())
}

func TestNewConfig(t *testing.T) {
	cfg := entities.NewConfig(
		entities.WithPendingPolicy(entities.PendingQueue),
		entities.WithGateRequestCode(99),
		entities.WithStorageRoot(""),
		entities.WithAccessStorePath("/data/grants.yaml"),
		entities.WithLogLevel("debug"),
	)

	assert.Equal(t, entities.PendingQueue, cfg.PendingPolicy)
	assert.Equal(t, 99, cfg.GateRequestCode)
	assert.Equal(t, entities.DefaultStorageRoot, cfg.StorageRoot, "empty root keeps the default")
	assert.Equal(t, "/data/grants.yaml", cfg.AccessStorePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Len(t, cfg.Capabilities, 3)
}
