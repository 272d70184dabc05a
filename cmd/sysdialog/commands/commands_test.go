package commands_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/reglet-dev/sysdialog/cmd/sysdialog/commands"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/infrastructure/grantstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCmd(fs)
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "", "schema", "event")
	require.NoError(t, err)
	assert.Contains(t, out, "correlation_id")

	_, err = execute(t, afero.NewMemMapFs(), "", "schema", "bogus")
	assert.Error(t, err)
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "",
		"resolve",
		"content://com.android.externalstorage.documents/document/primary%3ADownload%2Fgame.bin",
		"content://other/document/42",
	)
	require.NoError(t, err)
	assert.Equal(t,
		"/storage/emulated/0/Download/game.bin\ncontent://other/document/42\n", out)
}

func TestResolveCommand_StorageRootOverride(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "",
		"resolve", "--set", "storage_root=/mnt/sdcard",
		"content://com.android.externalstorage.documents/tree/primary%3AROMs",
	)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/sdcard/ROMs\n", out)
}

func TestConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/sysdialog.yaml", []byte("storage_root: /sd\n"), 0o644))

	out, err := execute(t, fs, "", "--config", "/etc/sysdialog.yaml",
		"resolve", "content://com.android.externalstorage.documents/document/primary%3Aa.txt")
	require.NoError(t, err)
	assert.Equal(t, "/sd/a.txt\n", out)

	_, err = execute(t, fs, "", "--config", "/missing.yaml", "resolve", "x")
	assert.ErrorContains(t, err, "failed to read config")

	_, err = execute(t, fs, "", "--set", "pending_policy=lifo", "resolve", "x")
	assert.Error(t, err)
}

func TestGrantsCommand(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := execute(t, fs, "", "grants")
	assert.ErrorContains(t, err, "access_store_path")

	store := grantstore.NewFileStore(grantstore.WithFs(fs), grantstore.WithPath("/cfg/access.yaml"))
	out, err := execute(t, fs, "", "grants", "--set", "access_store_path=/cfg/access.yaml")
	require.NoError(t, err)
	assert.Equal(t, "no grants in /cfg/access.yaml\n", out)

	grants := &entities.AccessGrantSet{}
	grants.Add(entities.NewAccessGrant(entities.OpenFolder, "content://tree/saves", "/sd/Saves",
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, store.Save(grants))

	out, err = execute(t, fs, "", "grants", "--set", "access_store_path=/cfg/access.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "open_folder")
	assert.Contains(t, out, "/sd/Saves")

	out, err = execute(t, fs, "", "grants", "--set", "access_store_path=/cfg/access.yaml",
		"--check", "/sd/Saves/slot1.sav")
	require.NoError(t, err)
	assert.Equal(t, "/sd/Saves/slot1.sav: covered=true\n", out)
}

func TestRunCommand_OpenFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/rom.bin", []byte("ROM!"), 0o644))

	stdin := strings.Join([]string{
		"open_file",
		"y",
		"/data/rom.bin",
		"pending",
		"quit",
	}, "\n") + "\n"

	out, err := execute(t, fs, stdin, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Storage access requires the following permissions:")
	assert.Contains(t, out, "opened /data/rom.bin (4 bytes)")
	assert.Contains(t, out, "no deferred actions")
}

func TestRunCommand_SaveThenExport(t *testing.T) {
	fs := afero.NewMemMapFs()

	stdin := strings.Join([]string{
		"save_file game.sav",
		"/data/game.sav",
		"export /data/game.sav hello world",
	}, "\n") + "\n"

	out, err := execute(t, fs, stdin, "run", "--revision", "21")
	require.NoError(t, err)
	assert.NotContains(t, out, "Storage access requires", "no capability applies on revision 21")
	assert.Contains(t, out, `Save as (suggested "game.sav")`)
	assert.Contains(t, out, "save target /data/game.sav")

	data, err := afero.ReadFile(fs, "/data/game.sav")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestRunCommand_Denied(t *testing.T) {
	stdin := strings.Join([]string{
		"open_folder",
		"n",
		"open_file",
		"",
		"bogus",
	}, "\n") + "\n"

	out, err := execute(t, afero.NewMemMapFs(), stdin, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Storage permissions are required for open_folder (refused by user)")
	assert.Equal(t, 2, strings.Count(out, "import failed"))
	assert.Contains(t, out, `error: unknown command "bogus"`)
}

func TestRunCommand_MalformedEvent(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "event {\"type\":\"bogus\"}\nquit\n", "run", "--revision", "21")
	require.NoError(t, err)
	assert.Contains(t, out, `error: event: event decode failed: unknown event type "bogus" [decode]`)
}

func TestRunCommand_ExportWithoutHandle(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "export\nquit\n", "run", "--revision", "21")
	require.NoError(t, err)
	assert.Contains(t, out, "usage: export")
}
