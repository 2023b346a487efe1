package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paddockpal/paddock/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sporting/doc.pdf", []byte("pdf bytes")))

	data, err := store.Get(ctx, "sporting/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)

	// Overwrite.
	require.NoError(t, store.Put(ctx, "sporting/doc.pdf", []byte("updated")))
	data, err = store.Get(ctx, "sporting/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), data)
}

func TestGetMissing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "sporting/absent.pdf")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListByPrefix(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sporting/b.pdf", []byte("b")))
	require.NoError(t, store.Put(ctx, "sporting/a.pdf", []byte("a")))
	require.NoError(t, store.Put(ctx, "technical/c.pdf", []byte("c")))

	objects, err := store.List(ctx, "sporting/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "sporting/a.pdf", objects[0].Key)
	assert.Equal(t, "sporting/b.pdf", objects[1].Key)
	assert.Equal(t, int64(1), objects[0].Size)

	empty, err := store.List(ctx, "financial/")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDownload(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "technical/doc.pdf", []byte("content")))

	dest := filepath.Join(t.TempDir(), "nested", "doc.pdf")
	require.NoError(t, store.Download(ctx, "technical/doc.pdf", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestRejectsEscapingKeys(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "../outside")
	assert.ErrorIs(t, err, core.ErrConfiguration)

	err = store.Put(context.Background(), "", []byte("x"))
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
