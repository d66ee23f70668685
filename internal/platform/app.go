package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/keep/pkg/adapters/memory"
	"github.com/aretw0/keep/pkg/adapters/sqlite"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/notes"
	"github.com/aretw0/keep/pkg/remote"
	"github.com/aretw0/keep/pkg/reposync"
	"github.com/aretw0/keep/pkg/transfer"
	"github.com/aretw0/keep/pkg/typed"
)

// App wires the Local Store, the note manager, the sync engine and the
// importer around one data directory.
type App struct {
	Config   Config
	Store    core.Store
	Cols     typed.Collections
	Notes    *notes.Manager
	Sync     *reposync.Engine
	Importer *transfer.Importer

	dir        string
	logger     *slog.Logger
	remote     remote.Repository
	httpClient *http.Client
	now        func() time.Time
}

// Open builds an app over the data directory dir.
func Open(ctx context.Context, dir string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.clock == nil {
		o.clock = time.Now
	}

	useTemp := o.forceTemp || (IsDevRun() && o.devSafety)
	resolved := ResolveDataPath(dir, useTemp)
	if IsDevRun() {
		if o.devSafety {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}

	if o.mustExist {
		if info, err := os.Stat(resolved); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("data directory %s does not exist", resolved)
		}
	}

	var cfg Config
	if o.config != nil {
		cfg = *o.config
	} else {
		loaded, err := LoadConfig(resolved)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	for _, fn := range o.overrides {
		fn(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		var err error
		store, err = openStore(resolved, cfg.Adapter, o.logger)
		if err != nil {
			return nil, err
		}
	}
	if err := store.Initialize(ctx); err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Store:      store,
		Cols:       typed.Open(store),
		dir:        resolved,
		logger:     o.logger,
		remote:     o.remote,
		httpClient: o.httpClient,
		now:        o.clock,
	}

	a.Sync = reposync.New(reposync.ConnectorFunc(a.repository),
		reposync.WithDebounce(cfg.Debounce),
		reposync.WithGlobalDebounce(!cfg.PerNoteDebounce),
		reposync.WithBundle(cfg.Bundle),
		reposync.WithLogger(o.logger),
	)
	a.Notes = notes.New(store,
		notes.WithNotifier(a.Sync),
		notes.WithLogger(o.logger),
		notes.WithClock(o.clock),
	)
	a.Importer = transfer.NewImporter(store,
		transfer.WithChunkSize(cfg.ImportChunk),
		transfer.WithYield(cfg.ImportYield),
		transfer.WithLogger(o.logger),
	)

	if err := a.Notes.Reload(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func openStore(dir, adapter string, logger *slog.Logger) (core.Store, error) {
	switch adapter {
	case AdapterSQLite:
		return sqlite.Open(filepath.Join(dir, sqlite.DefaultFile), logger)
	case AdapterMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown adapter %q", core.ErrValidation, adapter)
	}
}

// Dir is the resolved data directory.
func (a *App) Dir() string { return a.dir }

// Logger is the app logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Close fires pending pushes, then closes the store.
func (a *App) Close() error {
	var errs []error
	if a.Sync != nil {
		errs = append(errs, a.Sync.Close())
	}
	errs = append(errs, a.Store.Close())
	return errors.Join(errs...)
}

// SyncAll pushes every label and note, then the bundle.
func (a *App) SyncAll(ctx context.Context) (*reposync.Result, error) {
	return a.Sync.SyncAll(ctx, a.Notes.Labels(), a.Notes.Notes())
}

// LoadAll replaces local records with the remote ones and reloads the cache.
func (a *App) LoadAll(ctx context.Context) (*reposync.Result, error) {
	res, err := a.Sync.LoadAll(ctx, a.Cols)
	if rerr := a.Notes.Reload(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return res, err
}

// Export writes the current snapshot to w.
func (a *App) Export(w io.Writer, indent bool) error {
	return transfer.Export(w, a.Notes.Notes(), a.Notes.Labels(), indent)
}

// Import reads a snapshot document from r and writes it, then reloads.
func (a *App) Import(ctx context.Context, r io.Reader) (*transfer.ImportResult, error) {
	res, err := a.Importer.Import(ctx, r)
	if rerr := a.Notes.Reload(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return res, err
}

// ImportSnapshot writes an already decoded snapshot, then reloads.
func (a *App) ImportSnapshot(ctx context.Context, snap core.Snapshot) (*transfer.ImportResult, error) {
	res, err := a.Importer.Write(ctx, snap)
	if rerr := a.Notes.Reload(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return res, err
}

// ConfigureRemote stores the credential and the normalized repository
// identifier. It returns the normalized identifier.
func (a *App) ConfigureRemote(ctx context.Context, token, repo string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", core.ErrValidation)
	}
	normalized, err := remote.NormalizeRepo(repo)
	if err != nil {
		return "", err
	}
	if err := a.Cols.SetSetting(ctx, core.SettingRemoteToken, token); err != nil {
		return "", err
	}
	if err := a.Cols.SetSetting(ctx, core.SettingRemoteRepo, normalized); err != nil {
		return "", err
	}
	a.logger.Info("remote configured", "repo", normalized)
	return normalized, nil
}

// RemoteRepo returns the stored repository identifier and whether a
// credential is available for it.
func (a *App) RemoteRepo(ctx context.Context) (repo string, configured bool, err error) {
	repo, err = a.Cols.Setting(ctx, core.SettingRemoteRepo)
	if err != nil {
		return "", false, err
	}
	token, err := a.token(ctx)
	if err != nil {
		return "", false, err
	}
	return repo, repo != "" && token != "", nil
}

func (a *App) token(ctx context.Context) (string, error) {
	if a.Config.Token != "" {
		return a.Config.Token, nil
	}
	return a.Cols.Setting(ctx, core.SettingRemoteToken)
}

// repository is the sync engine connector. Settings are read on every
// call so a reconfigured remote takes effect on the next push.
func (a *App) repository(ctx context.Context) (remote.Repository, error) {
	if a.remote != nil {
		return a.remote, nil
	}
	repo, ok, err := a.RemoteRepo(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.ErrNotConfigured
	}
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	opts := []remote.GitHubOption{remote.WithLogger(a.logger)}
	if a.Config.APIURL != "" {
		opts = append(opts, remote.WithAPIURL(a.Config.APIURL))
	}
	if a.httpClient != nil {
		opts = append(opts, remote.WithHTTPClient(a.httpClient))
	}
	return remote.NewGitHub(token, repo, opts...)
}

// AppState is the introspection snapshot of an app.
type AppState struct {
	Dir     string `json:"dir"`
	Adapter string `json:"adapter"`
	Notes   int    `json:"notes"`
	Labels  int    `json:"labels"`
	Store   any    `json:"store,omitempty"`
	Sync    any    `json:"sync"`
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	st := AppState{
		Dir:     a.dir,
		Adapter: a.Config.Adapter,
		Notes:   len(a.Notes.Notes()),
		Labels:  len(a.Notes.Labels()),
		Sync:    a.Sync.State(),
	}
	if intro, ok := a.Store.(introspection.Introspectable); ok {
		st.Store = intro.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string { return "keep-app" }

var _ introspection.Introspectable = (*App)(nil)
var _ introspection.Component = (*App)(nil)
