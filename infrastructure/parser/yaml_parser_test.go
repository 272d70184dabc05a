package parser_test

import (
	"testing"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/infrastructure/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYamlConfigParser_Parse(t *testing.T) {
	data := []byte(`
pending_policy: queue
gate_request_code: 4321
storage_root: /mnt/sdcard
access_store_path: /data/sysdialog/access.yaml
capabilities:
  - name: android.permission.READ_EXTERNAL_STORAGE
    min_revision: 23
log:
  level: debug
`)

	cfg, err := parser.NewYamlConfigParser().Parse(data)
	require.NoError(t, err)

	assert.Equal(t, entities.PendingQueue, cfg.PendingPolicy)
	assert.Equal(t, 4321, cfg.GateRequestCode)
	assert.Equal(t, "/mnt/sdcard", cfg.StorageRoot)
	assert.Equal(t, "/data/sysdialog/access.yaml", cfg.AccessStorePath)
	require.Len(t, cfg.Capabilities, 1)
	assert.Equal(t, 23, cfg.Capabilities[0].MinRevision)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sysdialog", cfg.Log.Tag, "unset keys keep their defaults")
}

func TestYamlConfigParser_Defaults(t *testing.T) {
	cfg, err := parser.NewYamlConfigParser().Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultConfig(), *cfg)
}

func TestYamlConfigParser_Invalid(t *testing.T) {
	_, err := parser.NewYamlConfigParser().Parse([]byte("gate_request_code: [1"))
	assert.ErrorContains(t, err, "failed to parse config")
}
