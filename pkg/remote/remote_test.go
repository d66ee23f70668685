package remote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
)

func TestNormalizeRepo(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"me/notes", "me/notes"},
		{"  me/notes  ", "me/notes"},
		{"https://github.com/me/notes", "me/notes"},
		{"https://github.com/me/notes/", "me/notes"},
		{"github.com/me/notes.git", "me/notes"},
	}
	for _, tt := range tests {
		got, err := remote.NormalizeRepo(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "notes", "/notes", "me/", "me/notes/tree/main"} {
		_, err := remote.NormalizeRepo(bad)
		assert.ErrorIs(t, err, core.ErrValidation, bad)
	}
}

func TestBlobSHA(t *testing.T) {
	// git hash-object of an empty file
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", remote.BlobSHA(nil))
}

func TestMemory_Revisions(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemory()

	sha, err := m.Write(ctx, "data/notes/a.json", []byte("v1"), "", "create")
	require.NoError(t, err)

	_, err = m.Write(ctx, "data/notes/a.json", []byte("v2"), "", "blind overwrite")
	assert.ErrorIs(t, err, core.ErrRemoteConflict)

	_, err = m.Write(ctx, "data/notes/a.json", []byte("v2"), "stale", "stale")
	assert.ErrorIs(t, err, core.ErrRemoteConflict)

	sha2, err := m.Write(ctx, "data/notes/a.json", []byte("v2"), sha, "update")
	require.NoError(t, err)
	assert.NotEqual(t, sha, sha2)

	f, err := m.Get(ctx, "data/notes/a.json")
	require.NoError(t, err)
	assert.Equal(t, sha2, f.SHA)
	assert.Equal(t, "v2", string(f.Content))

	assert.ErrorIs(t, m.Delete(ctx, "data/notes/a.json", sha, "old"), core.ErrRemoteConflict)
	require.NoError(t, m.Delete(ctx, "data/notes/a.json", sha2, "delete"))

	_, err = m.Get(ctx, "data/notes/a.json")
	assert.True(t, remote.IsNotFound(err))
}

func TestMemory_List(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemory()
	m.Seed("data/notes/b.json", []byte("{}"))
	m.Seed("data/notes/a.json", []byte("{}"))
	m.Seed("data/labels.json", []byte("[]"))

	entries, err := m.List(ctx, "data/notes")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "data/notes/a.json", entries[0].Path)

	root, err := m.List(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, []remote.Entry{
		{Name: "labels.json", Path: "data/labels.json", SHA: remote.BlobSHA([]byte("[]")), Type: "file"},
		{Name: "notes", Path: "data/notes", Type: "dir"},
	}, root)

	_, err = m.List(ctx, "media")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
