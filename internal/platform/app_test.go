package platform_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/internal/platform"
	"github.com/aretw0/keep/pkg/adapters/sqlite"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
	"github.com/aretw0/keep/pkg/reposync"
)

var fixed = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openApp(t *testing.T, dir string, opts ...platform.Option) *platform.App {
	t.Helper()
	base := []platform.Option{platform.WithDebounce(10 * time.Millisecond), platform.WithImportYield(0)}
	app, err := platform.Open(context.Background(), dir, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestOpen_SQLitePersistsAcrossRuns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	app, err := platform.Open(ctx, dir)
	require.NoError(t, err)
	n, err := app.Notes.Create(ctx, "Groceries", "milk", "")
	require.NoError(t, err)
	require.NoError(t, app.Close())

	assert.FileExists(t, filepath.Join(dir, sqlite.DefaultFile))

	again := openApp(t, dir)
	got, ok := again.Notes.Note(n.ID)
	require.True(t, ok)
	assert.Equal(t, "Groceries", got.Title)
}

func TestOpen_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := platform.Open(ctx, t.TempDir(), platform.WithAdapter("postgres"))
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = platform.Open(ctx, filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
	assert.Error(t, err)
}

func TestOpen_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := platform.DefaultConfig()
	cfg.Adapter = platform.AdapterMemory
	cfg.ImportChunk = 7
	require.NoError(t, platform.SaveConfig(dir, cfg))

	app := openApp(t, dir)
	assert.Equal(t, platform.AdapterMemory, app.Config.Adapter)
	assert.Equal(t, 7, app.Config.ImportChunk)
	assert.NoFileExists(t, filepath.Join(dir, sqlite.DefaultFile))
}

func TestRemote_NotConfiguredIsSilent(t *testing.T) {
	ctx := context.Background()
	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory))

	_, err := app.Notes.Create(ctx, "offline", "", "")
	require.NoError(t, err)
	app.Sync.Flush()

	st := app.Sync.State().(reposync.EngineState)
	assert.Zero(t, st.Failed)

	_, configured, err := app.RemoteRepo(ctx)
	require.NoError(t, err)
	assert.False(t, configured)

	_, err = app.SyncAll(ctx)
	assert.ErrorIs(t, err, core.ErrNotConfigured)
}

type fakeGitHub struct {
	mu     sync.Mutex
	auth   []string
	writes []string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	switch r.Method {
	case http.MethodGet:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	case http.MethodPut:
		f.writes = append(f.writes, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"content": map[string]string{"sha": "new"}})
	}
}

func (f *fakeGitHub) snapshot() (auth, writes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...), append([]string(nil), f.writes...)
}

func TestConfigureRemote_PushesThroughGitHub(t *testing.T) {
	ctx := context.Background()
	gh := &fakeGitHub{}
	srv := httptest.NewServer(gh)
	t.Cleanup(srv.Close)

	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory), platform.WithAPIURL(srv.URL))

	repo, err := app.ConfigureRemote(ctx, " tok ", "https://github.com/me/notes.git")
	require.NoError(t, err)
	assert.Equal(t, "me/notes", repo)

	n, err := app.Notes.Create(ctx, "synced", "", "")
	require.NoError(t, err)
	app.Sync.Flush()

	auth, writes := gh.snapshot()
	assert.Contains(t, writes, "/repos/me/notes/contents/data/notes/"+n.ID+".json")
	require.NotEmpty(t, auth)
	assert.Equal(t, "Bearer tok", auth[0])
}

func TestConfigureRemote_EnvTokenWins(t *testing.T) {
	ctx := context.Background()
	gh := &fakeGitHub{}
	srv := httptest.NewServer(gh)
	t.Cleanup(srv.Close)
	t.Setenv(platform.TokenEnv, "from-env")

	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory), platform.WithAPIURL(srv.URL))
	_, err := app.ConfigureRemote(ctx, "stored", "me/notes")
	require.NoError(t, err)

	_, err = app.Notes.CreateLabel(ctx, "work")
	require.NoError(t, err)
	app.Sync.Flush()

	auth, _ := gh.snapshot()
	require.NotEmpty(t, auth)
	assert.Equal(t, "Bearer from-env", auth[0])
}

func TestConfigureRemote_Rejects(t *testing.T) {
	ctx := context.Background()
	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory))

	_, err := app.ConfigureRemote(ctx, "", "me/notes")
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = app.ConfigureRemote(ctx, "tok", "not-a-repo")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestSyncAll_ThenLoadAllOnAnotherDevice(t *testing.T) {
	ctx := context.Background()
	shared := remote.NewMemory()

	laptop := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory), platform.WithRemote(shared))
	l, err := laptop.Notes.CreateLabel(ctx, "home")
	require.NoError(t, err)
	n, err := laptop.Notes.Create(ctx, "one", "first", core.ColorBlue)
	require.NoError(t, err)
	_, err = laptop.Notes.SetLabels(ctx, n.ID, []string{l.ID})
	require.NoError(t, err)
	_, err = laptop.Notes.Create(ctx, "two", "second", "")
	require.NoError(t, err)

	res, err := laptop.SyncAll(ctx)
	require.NoError(t, err)
	assert.True(t, res.Bundle)

	phone := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory), platform.WithRemote(shared))
	res, err = phone.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Notes)
	assert.Equal(t, 1, res.Labels)

	got, ok := phone.Notes.Note(n.ID)
	require.True(t, ok)
	assert.Equal(t, []string{l.ID}, got.Labels)
	name, ok := phone.Notes.LabelName(l.ID)
	assert.True(t, ok)
	assert.Equal(t, "home", name)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory))
	for _, title := range []string{"a", "b", "c"} {
		_, err := src.Notes.Create(ctx, title, "", "")
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, src.Export(&buf, true))

	dst := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory))
	res, err := dst.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Notes)
	assert.Len(t, dst.Notes.Notes(), 3)
}

func TestAttachMedia(t *testing.T) {
	ctx := context.Background()
	shared := remote.NewMemory()
	app := openApp(t, t.TempDir(),
		platform.WithAdapter(platform.AdapterMemory),
		platform.WithRemote(shared),
		platform.WithClock(func() time.Time { return fixed }),
	)

	folder := t.TempDir()
	_, err := app.ConnectFolder(ctx, folder)
	require.NoError(t, err)

	n, err := app.Notes.Create(ctx, "trip", "photos:", "")
	require.NoError(t, err)

	at, err := app.AttachMedia(ctx, n.ID, "Beach.JPG", []byte("jpeg"))
	require.NoError(t, err)

	want := "media_1748779200000.jpg"
	assert.Equal(t, want, at.Name)
	assert.True(t, at.Synced)
	assert.Equal(t, filepath.Join(folder, "media", want), at.Local)

	local, err := os.ReadFile(at.Local)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(local))

	pushed, ok := shared.Content(reposync.MediaPath(want))
	require.True(t, ok)
	assert.Equal(t, "jpeg", string(pushed))

	assert.Equal(t, "photos:\n![image](media/"+want+")\n", at.Note.Content)
}

func TestAttachMedia_NowhereToStore(t *testing.T) {
	ctx := context.Background()
	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory))

	n, err := app.Notes.Create(ctx, "x", "body", "")
	require.NoError(t, err)

	at, err := app.AttachMedia(ctx, n.ID, "a.png", []byte("png"))
	require.NoError(t, err)
	assert.False(t, at.Stored())
	assert.True(t, strings.Contains(at.Note.Content, reposync.MediaRef(at.Name)))

	_, err = app.AttachMedia(ctx, "missing", "a.png", nil)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMirror_RememberedFolder(t *testing.T) {
	ctx := context.Background()
	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory))

	m, err := app.Mirror(ctx)
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = app.SuperviseMedia(ctx, 0)
	assert.ErrorIs(t, err, core.ErrValidation)

	folder := t.TempDir()
	_, err = app.ConnectFolder(ctx, folder)
	require.NoError(t, err)

	m, err = app.Mirror(ctx)
	require.NoError(t, err)
	assert.Equal(t, folder, m.Root())
}

func TestState(t *testing.T) {
	ctx := context.Background()
	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory))
	_, err := app.Notes.Create(ctx, "n", "", "")
	require.NoError(t, err)

	st, ok := app.State().(platform.AppState)
	require.True(t, ok)
	assert.Equal(t, 1, st.Notes)
	assert.Equal(t, platform.AdapterMemory, st.Adapter)
	assert.NotNil(t, st.Store)
	assert.Equal(t, "keep-app", app.ComponentType())
}

func TestImportMedia(t *testing.T) {
	ctx := context.Background()
	shared := remote.NewMemory()
	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory), platform.WithRemote(shared))
	folder := t.TempDir()
	_, err := app.ConnectFolder(ctx, folder)
	require.NoError(t, err)

	src := fstest.MapFS{
		"work/media/a.png": {Data: []byte("a")},
		"b.jpg":            {Data: []byte("b")},
	}
	n, err := app.ImportMedia(ctx, src, []string{"work/media/a.png", "b.jpg", "gone.gif"})
	assert.Error(t, err, "the missing file is reported")
	assert.Equal(t, 2, n)

	assert.FileExists(t, filepath.Join(folder, "media", "a.png"))
	data, ok := shared.Content(reposync.MediaPath("b.jpg"))
	require.True(t, ok)
	assert.Equal(t, "b", string(data))
}

func TestSuperviseMedia_PushesNewFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shared := remote.NewMemory()
	app := openApp(t, t.TempDir(), platform.WithAdapter(platform.AdapterMemory), platform.WithRemote(shared))

	m, err := app.ConnectFolder(ctx, t.TempDir())
	require.NoError(t, err)

	sup, err := app.SuperviseMedia(ctx, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, sup.Start(ctx))
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = sup.Stop(stopCtx)
	}()

	// The watcher is added asynchronously; keep rewriting until it is seen.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(m.MediaPath("cat.gif"), []byte("gif"), 0644)
		data, ok := shared.Content(reposync.MediaPath("cat.gif"))
		return ok && string(data) == "gif"
	}, 3*time.Second, 50*time.Millisecond)
}
