package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reglet-dev/sysdialog/application/resolver"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/internal/testutil"
	"github.com/stretchr/testify/assert"
)

const docs = "content://com.android.externalstorage.documents"

func TestResolver_Resolve(t *testing.T) {
	querier := &testutil.Querier{Paths: map[entities.ResourceHandle]string{
		"content://media/external/images/7": "/storage/emulated/0/DCIM/7.jpg",
	}}
	r := resolver.New(resolver.WithQuerier(querier), resolver.WithLogger(testutil.DiscardLogger()))

	tests := []struct {
		name   string
		handle entities.ResourceHandle
		want   string
	}{
		{
			name:   "primary document",
			handle: docs + "/document/primary%3ADownload%2From.bin",
			want:   "/storage/emulated/0/Download/rom.bin",
		},
		{
			name:   "primary type is case-insensitive",
			handle: docs + "/document/PRIMARY%3Asaves",
			want:   "/storage/emulated/0/saves",
		},
		{
			name:   "tree",
			handle: docs + "/tree/primary%3AROMs",
			want:   "/storage/emulated/0/ROMs",
		},
		{
			name:   "document inside tree",
			handle: docs + "/tree/primary%3AROMs/document/primary%3AROMs%2Fgame.bin",
			want:   "/storage/emulated/0/ROMs/game.bin",
		},
		{
			name:   "relative path keeps further colons",
			handle: docs + "/document/primary%3Aa%3Ab.txt",
			want:   "/storage/emulated/0/a:b.txt",
		},
		{
			name:   "file uri",
			handle: "file:///sdcard/rom.bin",
			want:   "/sdcard/rom.bin",
		},
		{
			name:   "data column fallback",
			handle: "content://media/external/images/7",
			want:   "/storage/emulated/0/DCIM/7.jpg",
		},
		{
			name:   "removable volume falls back to raw text",
			handle: docs + "/document/1A2B-3C4D%3Arom.bin",
			want:   docs + "/document/1A2B-3C4D%3Arom.bin",
		},
		{
			name:   "missing relative part falls back to raw text",
			handle: docs + "/document/primary%3A",
			want:   docs + "/document/primary%3A",
		},
		{
			name:   "unknown provider falls back to raw text",
			handle: "content://com.example.cloud/doc/42",
			want:   "content://com.example.cloud/doc/42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(context.Background(), tt.handle))
		})
	}
}

func TestResolver_QuerierFailure(t *testing.T) {
	logger, buf := testutil.BufferLogger()
	r := resolver.New(
		resolver.WithQuerier(&testutil.Querier{Err: errors.New("no such column")}),
		resolver.WithLogger(logger),
	)

	got := r.Resolve(context.Background(), "content://com.example.cloud/doc/42")

	assert.Equal(t, "content://com.example.cloud/doc/42", got)
	assert.Contains(t, buf.String(), "data column query failed")
}

func TestResolver_WithStorageRoot(t *testing.T) {
	r := resolver.New(resolver.WithStorageRoot("/mnt/sdcard/"))

	p, ok := r.Locate(docs + "/document/primary%3Asaves%2Fslot1.sav")

	assert.True(t, ok)
	assert.Equal(t, "/mnt/sdcard/saves/slot1.sav", p)
}

func TestResolver_Locate(t *testing.T) {
	r := resolver.New()

	p, ok := r.Locate("/sdcard/../sdcard/x.bin")
	assert.True(t, ok)
	assert.Equal(t, "/sdcard/x.bin", p)

	_, ok = r.Locate("content://media/external/images/7")
	assert.False(t, ok, "locate never consults the querier")

	_, ok = r.Locate("")
	assert.False(t, ok)

	_, ok = r.Locate("file://")
	assert.False(t, ok)
}
