package fsio_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/reglet-dev/sysdialog/application/resolver"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/infrastructure/fsio"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const romHandle entities.ResourceHandle = "content://com.android.externalstorage.documents/document/primary%3AROMs%2Fgame.bin"

func newIO(t *testing.T) (*fsio.ResourceIO, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return fsio.New(
		fsio.WithFs(fs),
		fsio.WithLocator(resolver.New(resolver.WithStorageRoot("/sdcard"))),
	), fs
}

func TestResourceIO_ReadBytes(t *testing.T) {
	rio, fs := newIO(t)
	content := bytes.Repeat([]byte("0123456789abcdef"), fsio.ChunkSize/16*2+3)
	require.NoError(t, afero.WriteFile(fs, "/sdcard/ROMs/game.bin", content, 0o644))

	data, err := rio.ReadBytes(context.Background(), romHandle)

	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestResourceIO_ReadEmptyIsNil(t *testing.T) {
	rio, fs := newIO(t)
	require.NoError(t, afero.WriteFile(fs, "/sdcard/empty.bin", nil, 0o644))

	data, err := rio.ReadBytes(context.Background(), "file:///sdcard/empty.bin")

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestResourceIO_ReadErrors(t *testing.T) {
	rio, _ := newIO(t)

	_, err := rio.ReadBytes(context.Background(), "/sdcard/missing.bin")
	assert.ErrorContains(t, err, "failed to open")

	_, err = rio.ReadBytes(context.Background(), "content://com.example.cloud/doc/1")
	assert.ErrorIs(t, err, fsio.ErrUnlocatable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rio2, fs := newIO(t)
	require.NoError(t, afero.WriteFile(fs, "/a.bin", []byte("x"), 0o644))
	_, err = rio2.ReadBytes(ctx, "/a.bin")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResourceIO_WriteTruncates(t *testing.T) {
	rio, fs := newIO(t)
	require.NoError(t, afero.WriteFile(fs, "/sdcard/ROMs/game.bin", []byte("a much longer previous save"), 0o644))

	require.NoError(t, rio.WriteBytes(context.Background(), romHandle, []byte("new")))

	data, err := afero.ReadFile(fs, "/sdcard/ROMs/game.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestResourceIO_WriteCreatesDirectories(t *testing.T) {
	rio, fs := newIO(t)

	require.NoError(t, rio.WriteBytes(context.Background(), "/sdcard/Saves/slot1.sav", []byte("s")))

	exists, err := afero.Exists(fs, "/sdcard/Saves/slot1.sav")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestResourceIO_WriteReadOnly(t *testing.T) {
	rio := fsio.New(fsio.WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))

	err := rio.WriteBytes(context.Background(), "/sdcard/x.sav", []byte("s"))
	assert.Error(t, err)
}
