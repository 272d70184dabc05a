package picker_test

import (
	"context"
	"testing"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/infrastructure/picker"
	"github.com/reglet-dev/sysdialog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePicker(t *testing.T) {
	p := picker.NewQueuePicker(testutil.DiscardLogger())

	p.PresentPicker(context.Background(), entities.SaveFile, entities.SaveFileID, "slot1.sav")
	p.PresentPicker(context.Background(), entities.OpenFolder, entities.OpenFolderID, "")

	reqs := p.Take()
	require.Len(t, reqs, 2)
	assert.Equal(t, picker.Request{Kind: entities.SaveFile, ID: entities.SaveFileID, PreferredName: "slot1.sav"}, reqs[0])
	assert.Empty(t, p.Take())

	assert.Equal(t,
		entities.ActionResult{CorrelationID: entities.OpenFolderID, Handle: "/sdcard/ROMs"},
		reqs[1].Select("/sdcard/ROMs"))
	assert.True(t, reqs[1].Select("").Cancelled())
}
