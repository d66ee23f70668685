// Package reposync mirrors the Local Store to a remote repository.
//
// Incremental pushes are debounced and fire and forget: failures are logged
// and dropped, and the next edit of the same item is the only retry. Bulk
// operations (SyncAll, LoadAll) run immediately and return their failures.
package reposync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
)

const (
	// DefaultDebounce is the quiet period before an incremental push fires.
	DefaultDebounce = 3 * time.Second

	// DefaultPushTimeout bounds one incremental push.
	DefaultPushTimeout = 30 * time.Second

	globalKey = "*"
)

// Connector hands out the remote for the current settings. It returns
// core.ErrNotConfigured while no credential or repository is set.
type Connector interface {
	Repository(ctx context.Context) (remote.Repository, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (remote.Repository, error)

func (f ConnectorFunc) Repository(ctx context.Context) (remote.Repository, error) { return f(ctx) }

// Static always returns repo.
func Static(repo remote.Repository) Connector {
	return ConnectorFunc(func(context.Context) (remote.Repository, error) { return repo, nil })
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebounce sets the incremental push window.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithGlobalDebounce shares one window between all items: a notification
// for any item cancels the pending push of every other item.
func WithGlobalDebounce(global bool) Option {
	return func(e *Engine) { e.global = global }
}

// WithBundle controls whether SyncAll also writes the bundle document.
func WithBundle(enabled bool) Option {
	return func(e *Engine) { e.bundle = enabled }
}

// WithPushTimeout bounds each incremental push.
func WithPushTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.pushTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine is the sync engine.
type Engine struct {
	conn        Connector
	logger      *slog.Logger
	debounce    time.Duration
	global      bool
	bundle      bool
	pushTimeout time.Duration

	deb    *debouncer
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	pushed    int
	failed    int
	lastError string
}

// New creates an engine pulling its remote from conn.
func New(conn Connector, opts ...Option) *Engine {
	e := &Engine{
		conn:        conn,
		logger:      slog.New(slog.DiscardHandler),
		debounce:    DefaultDebounce,
		bundle:      true,
		pushTimeout: DefaultPushTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.deb = newDebouncer(e.debounce)
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e
}

func (e *Engine) key(p string) string {
	if e.global {
		return globalKey
	}
	return p
}

// schedule debounces fn under the item path. fn gets its own bounded context.
func (e *Engine) schedule(p string, attrs []any, fn func(ctx context.Context, repo remote.Repository) error) {
	e.deb.add(e.key(p), func() {
		ctx, cancel := context.WithTimeout(e.ctx, e.pushTimeout)
		defer cancel()

		repo, err := e.conn.Repository(ctx)
		if errors.Is(err, core.ErrNotConfigured) {
			e.logger.Debug("remote not configured, push skipped", "path", p)
			return
		}
		if err == nil {
			err = fn(ctx, repo)
		}
		e.record(err)
		if err != nil {
			e.logger.Error("sync push failed", append(attrs, "path", p, "error", err)...)
			return
		}
		e.logger.Debug("synced", append(attrs, "path", p)...)
	})
}

func (e *Engine) record(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.failed++
		e.lastError = err.Error()
		return
	}
	e.pushed++
}

// NotifyNote schedules a push of n.
func (e *Engine) NotifyNote(n core.Note) {
	if err := core.CheckID(n.ID); err != nil {
		e.logger.Warn("note not scheduled", "error", err)
		return
	}
	n = n.Clone()
	e.schedule(NotePath(n.ID), []any{"id", n.ID}, func(ctx context.Context, repo remote.Repository) error {
		_, err := push(ctx, repo, noteKind, n)
		return err
	})
}

// NotifyNoteDeleted schedules removal of the note file. It shares the
// note's window, so a pending update is replaced by the delete.
func (e *Engine) NotifyNoteDeleted(id string) {
	if err := core.CheckID(id); err != nil {
		e.logger.Warn("note removal not scheduled", "error", err)
		return
	}
	p := NotePath(id)
	e.schedule(p, []any{"id", id}, func(ctx context.Context, repo remote.Repository) error {
		return remove(ctx, repo, p, "Delete note: "+id)
	})
}

// NotifyLabels schedules a push of the label document.
func (e *Engine) NotifyLabels(labels []core.Label) {
	labels = append([]core.Label(nil), labels...)
	e.schedule(LabelsPath, nil, func(ctx context.Context, repo remote.Repository) error {
		_, err := push(ctx, repo, labelsKind, labels)
		return err
	})
}

// Flush fires every pending push now and waits for them.
func (e *Engine) Flush() {
	e.deb.flush()
}

// Close flushes pending pushes and stops accepting new ones.
func (e *Engine) Close() error {
	e.deb.stop()
	e.cancel()
	return nil
}

// Result summarizes a bulk operation.
type Result struct {
	Labels    int      // labels written
	Notes     int      // notes written
	Unchanged int      // files already identical on the remote
	Failed    []string // ids of notes that could not be pushed or decoded
	Bundle    bool     // the bundle document was written (push) or used (pull)
}

// SyncAll pushes the label document and then every note, one at a time.
// A label failure stops the run before any note. A note failure is logged
// and skipped; the run continues and the failures are returned joined.
// The bundle document is written last.
func (e *Engine) SyncAll(ctx context.Context, labels []core.Label, notes []core.Note) (*Result, error) {
	repo, err := e.conn.Repository(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{}

	out, err := push(ctx, repo, labelsKind, labels)
	if err != nil {
		return res, fmt.Errorf("push labels: %w", err)
	}
	e.count(res, out, &res.Labels, len(labels))

	var errs []error
	for i, n := range notes {
		if err := ctx.Err(); err != nil {
			return res, errors.Join(append(errs, err)...)
		}
		err := core.CheckID(n.ID)
		var out outcome
		if err == nil {
			out, err = push(ctx, repo, noteKind, n)
		}
		if err != nil {
			e.logger.Error("note push failed", "id", n.ID, "error", err)
			res.Failed = append(res.Failed, n.ID)
			errs = append(errs, fmt.Errorf("note %s: %w", n.ID, err))
			continue
		}
		e.count(res, out, &res.Notes, 1)
		if (i+1)%100 == 0 {
			e.logger.Info("sync progress", "done", i+1, "total", len(notes))
		}
	}

	if e.bundle {
		snap := core.Snapshot{Notes: notes, Labels: labels}
		if snap.Notes == nil {
			snap.Notes = []core.Note{}
		}
		if snap.Labels == nil {
			snap.Labels = []core.Label{}
		}
		if _, err := push(ctx, repo, bundleKind, snap); err != nil {
			errs = append(errs, fmt.Errorf("push bundle: %w", err))
		} else {
			res.Bundle = true
		}
	}

	e.logger.Info("sync complete", "labels", res.Labels, "notes", res.Notes, "unchanged", res.Unchanged, "failed", len(res.Failed))
	return res, errors.Join(errs...)
}

func (e *Engine) count(res *Result, out outcome, field *int, n int) {
	if out == unchanged {
		res.Unchanged++
		return
	}
	*field += n
}

// PushMedia uploads a media file immediately and returns its remote path.
func (e *Engine) PushMedia(ctx context.Context, name string, data []byte) (string, error) {
	repo, err := e.conn.Repository(ctx)
	if err != nil {
		return "", err
	}
	m := Media{Name: name, Data: data}
	if _, err := push(ctx, repo, mediaKind, m); err != nil {
		return "", fmt.Errorf("push media %s: %w", name, err)
	}
	return MediaPath(name), nil
}

// EngineState exposes internal state for observability.
type EngineState struct {
	Pending   int    `json:"pending"`
	Pushed    int    `json:"pushed"`
	Failed    int    `json:"failed"`
	LastError string `json:"last_error,omitempty"`
	Debounce  string `json:"debounce"`
	Global    bool   `json:"global_debounce"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EngineState{
		Pending:   e.deb.size(),
		Pushed:    e.pushed,
		Failed:    e.failed,
		LastError: e.lastError,
		Debounce:  e.debounce.String(),
		Global:    e.global,
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string { return "sync-engine" }

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
