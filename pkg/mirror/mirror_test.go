package mirror_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/mirror"
)

func TestOpen_RefusesMediaFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media")
	require.NoError(t, os.Mkdir(dir, 0755))

	_, err := mirror.Open(dir)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestOpen_CreatesMediaDir(t *testing.T) {
	root := t.TempDir()
	m, err := mirror.Open(root)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, mirror.MediaDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, root, m.Root())
}

func TestSaveReadList(t *testing.T) {
	m, err := mirror.Open(t.TempDir())
	require.NoError(t, err)

	p, err := m.Save("media_1.png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, m.MediaPath("media_1.png"), p)

	_, err = m.Save("notes.txt", []byte("not media"))
	require.NoError(t, err)

	data, err := m.Read("media_1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"media_1.png"}, names, "no temp files left behind, non-media ignored")
}

func TestCheck_DetectsLostFolder(t *testing.T) {
	root := t.TempDir()
	m, err := mirror.Open(root)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(root, mirror.MediaDir)))

	_, err = m.Save("media_1.png", []byte{1})
	assert.ErrorIs(t, err, mirror.ErrAccess)
	assert.False(t, m.State().(mirror.MirrorState).Healthy)
}

func TestIsMedia(t *testing.T) {
	m, err := mirror.Open(t.TempDir())
	require.NoError(t, err)

	assert.True(t, m.IsMedia("a.png"))
	assert.True(t, m.IsMedia("PHOTO.JPG"))
	assert.False(t, m.IsMedia("a.txt"))
	assert.False(t, m.IsMedia(mirror.TempFilePrefix+"123.png"))
}

func TestWatcher_HandsOverNewMedia(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, err := mirror.Open(t.TempDir())
	require.NoError(t, err)

	var mu sync.Mutex
	got := map[string][]byte{}
	w := m.NewWatcher(func(_ context.Context, name string, data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		got[name] = data
		return nil
	}, 20*time.Millisecond)
	require.NoError(t, w.Start(ctx))
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = w.Stop(stopCtx)
	}()

	require.NoError(t, os.WriteFile(m.MediaPath("shot.png"), []byte("png-bytes"), 0644))
	require.NoError(t, os.WriteFile(m.MediaPath("readme.txt"), []byte("ignored"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return string(got["shot.png"]) == "png-bytes"
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	_, ok := got["readme.txt"]
	assert.False(t, ok)
}
