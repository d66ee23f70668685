package platform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/mirror"
	"github.com/aretw0/keep/pkg/notes"
	"github.com/aretw0/keep/pkg/reposync"
)

// ConnectFolder opens the local media folder at path and remembers it.
func (a *App) ConnectFolder(ctx context.Context, path string) (*mirror.Mirror, error) {
	m, err := mirror.Open(path, mirror.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := a.Cols.SetSetting(ctx, core.SettingMediaFolder, m.Root()); err != nil {
		return nil, err
	}
	a.logger.Info("media folder connected", "path", m.Root())
	return m, nil
}

// Mirror opens the remembered media folder. It returns nil, nil when no
// folder was connected, and mirror.ErrAccess when the folder is gone.
func (a *App) Mirror(ctx context.Context) (*mirror.Mirror, error) {
	root, err := a.Cols.Setting(ctx, core.SettingMediaFolder)
	if err != nil || root == "" {
		return nil, err
	}
	return mirror.Open(root, mirror.WithLogger(a.logger))
}

// Attachment reports where an attached media file ended up.
type Attachment struct {
	Name   string
	Local  string // path in the media folder, empty when not saved
	Synced bool
	Note   *core.Note
}

// Stored reports whether the file was kept anywhere.
func (at *Attachment) Stored() bool { return at.Local != "" || at.Synced }

// AttachMedia saves data into the media folder when one is connected,
// pushes it to the remote when configured, and appends a reference to the
// note content. Save and push failures are logged, and the reference is
// appended regardless.
func (a *App) AttachMedia(ctx context.Context, noteID, filename string, data []byte) (*Attachment, error) {
	if _, ok := a.Notes.Note(noteID); !ok {
		return nil, fmt.Errorf("%w: note %s", core.ErrNotFound, noteID)
	}

	at := &Attachment{Name: reposync.MediaName(filename, a.now())}

	m, err := a.Mirror(ctx)
	switch {
	case err != nil:
		a.logger.Error("media folder unavailable", "error", err)
	case m != nil:
		if at.Local, err = m.Save(at.Name, data); err != nil {
			a.logger.Error("local media save failed", "name", at.Name, "error", err)
		}
	}

	if _, err := a.Sync.PushMedia(ctx, at.Name, data); err != nil {
		if errors.Is(err, core.ErrNotConfigured) {
			a.logger.Debug("media push skipped", "name", at.Name, "reason", err)
		} else {
			a.logger.Error("media push failed", "name", at.Name, "error", err)
		}
	} else {
		at.Synced = true
	}
	if !at.Stored() {
		a.logger.Warn("media was not stored: connect a folder or configure a remote", "name", at.Name)
	}

	n, _ := a.Notes.Note(noteID)
	content := n.Content + "\n" + reposync.MediaRef(at.Name) + "\n"
	at.Note, err = a.Notes.SetField(ctx, noteID, notes.FieldContent, content)
	return at, err
}

// MediaHandler pushes files reported by the media watcher to the remote.
func (a *App) MediaHandler() mirror.Handler {
	return func(ctx context.Context, name string, data []byte) error {
		path, err := a.Sync.PushMedia(ctx, name, data)
		if err != nil {
			return err
		}
		a.logger.Info("media pushed", "path", path)
		return nil
	}
}

// Runner is a background component started and stopped by the caller.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// SuperviseMedia returns a supervisor that keeps a watcher running over
// the connected folder and pushes new media files. A failed watcher is
// restarted with backoff.
func (a *App) SuperviseMedia(ctx context.Context, settle time.Duration) (Runner, error) {
	m, err := a.Mirror(ctx)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: no media folder connected", core.ErrValidation)
	}

	spec := supervisor.Spec{
		Name: "media-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return m.NewWatcher(a.MediaHandler(), settle), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     30 * time.Second,
			Multiplier:      2,
			ResetDuration:   time.Minute,
			MaxRestarts:     10,
			MaxDuration:     10 * time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}
	return supervisor.New("keep-media", supervisor.StrategyOneForOne, spec), nil
}

// ImportMedia copies media files named in a conversion out of fsys, into
// the connected folder and onto the remote when each is available. It
// returns how many files were stored somewhere.
func (a *App) ImportMedia(ctx context.Context, fsys fs.FS, names []string) (int, error) {
	m, err := a.Mirror(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	var errs []error
	for _, src := range names {
		if err := ctx.Err(); err != nil {
			return stored, errors.Join(append(errs, err)...)
		}
		data, err := fs.ReadFile(fsys, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		name := path.Base(src)

		ok := false
		if m != nil {
			if _, err := m.Save(name, data); err != nil {
				errs = append(errs, err)
			} else {
				ok = true
			}
		}
		if _, err := a.Sync.PushMedia(ctx, name, data); err == nil {
			ok = true
		} else if !errors.Is(err, core.ErrNotConfigured) {
			errs = append(errs, err)
		}
		if ok {
			stored++
		}
	}
	a.logger.Info("media imported", "stored", stored, "total", len(names))
	return stored, errors.Join(errs...)
}
