package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay quiet before it is handed over.
const DefaultSettle = 250 * time.Millisecond

// Handler receives a media file that appeared or changed in the folder.
type Handler func(ctx context.Context, name string, data []byte) error

// Watcher is a worker that reports new media files. It is meant to run
// under a lifecycle supervisor, which restarts it when the underlying
// watcher fails.
type Watcher struct {
	*worker.BaseWorker
	mirror  *Mirror
	handle  Handler
	settle  time.Duration
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher over the media folder.
func (m *Mirror) NewWatcher(handle Handler, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("media-watcher"),
		mirror:     m,
		handle:     handle,
		settle:     settle,
		timers:     make(map[string]*time.Timer),
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("media watcher already started (status: %s)", status)
	}
	if err := w.mirror.Check(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.mirror.media); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.mirror.media, err)
	}
	w.watcher = watcher

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"folder":            w.mirror.media,
		}
	})
}

func (w *Watcher) logger() *slog.Logger { return w.mirror.logger }

func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			attrs := []any{"error", fmt.Errorf("media watcher panic: %v", recovered)}
			if w.logger().Enabled(ctx, slog.LevelDebug) {
				attrs = append(attrs, "stack", string(debug.Stack()))
			}
			w.logger().Error("media watcher panic", attrs...)
			err = fmt.Errorf("media watcher panic: %v", recovered)
		}
	}()
	defer w.watcher.Close()
	defer w.drain()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("media watcher events channel closed")
			}
			w.observe(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("media watcher errors channel closed")
			}
			w.logger().Error("fsnotify error", "error", err)
		}
	}
}

// observe restarts the settle timer of a created or written media file.
func (w *Watcher) observe(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	name := filepath.Base(event.Name)
	if !w.mirror.IsMedia(name) {
		return
	}
	w.logger().Debug("media event", "name", name, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[name]; ok && t.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.settle, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.timers[name] == t {
			delete(w.timers, name)
		}
		w.mu.Unlock()
		w.dispatch(ctx, name)
	})
	w.timers[name] = t
}

// dispatch hands the file to the handler on a tracked goroutine.
func (w *Watcher) dispatch(ctx context.Context, name string) {
	if ctx.Err() != nil {
		return
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		data, err := os.ReadFile(w.mirror.MediaPath(name))
		if err == nil {
			err = w.handle(ctx, name, data)
		}
		if err != nil {
			w.logger().Error("media sync failed", "name", name, "error", err)
			return err
		}
		w.logger().Info("media synced", "name", name, "bytes", len(data))
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger().Error("media sync panic", "name", name, "error", err)
	}))
}

// drain cancels pending settle timers and waits for those already firing.
func (w *Watcher) drain() {
	w.mu.Lock()
	for name, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, name)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
