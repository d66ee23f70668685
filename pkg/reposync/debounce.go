package reposync

import (
	"slices"
	"sync"
	"time"
)

// debouncer coalesces calls per key: a new call for a key cancels that
// key's pending call and restarts its window.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*task
	running map[*task]struct{}
	stopped bool
}

// task is one scheduled call. done is closed once the call has run or
// has been dropped.
type task struct {
	timer *time.Timer
	fn    func()
	done  chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*task),
		running: make(map[*task]struct{}),
	}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if prev, ok := d.pending[key]; ok && prev.timer.Stop() {
		close(prev.done)
	}
	t := &task{fn: fn, done: make(chan struct{})}
	t.timer = time.AfterFunc(d.delay, func() { d.fire(key, t) })
	d.pending[key] = t
}

func (d *debouncer) fire(key string, t *task) {
	defer close(t.done)
	d.mu.Lock()
	if d.pending[key] != t {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.running[t] = struct{}{}
	d.mu.Unlock()

	t.fn()

	d.mu.Lock()
	delete(d.running, t)
	d.mu.Unlock()
}

// flush runs every pending call now, in key order, and waits for calls
// that were already firing. Calls scheduled after flush starts are left
// to their own window.
func (d *debouncer) flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var due, wait []*task
	for _, k := range keys {
		t := d.pending[k]
		if t.timer.Stop() {
			due = append(due, t)
			delete(d.pending, k)
		} else {
			// Timer already fired; fire is about to run it.
			wait = append(wait, t)
		}
	}
	for t := range d.running {
		wait = append(wait, t)
	}
	d.mu.Unlock()

	for _, t := range due {
		t.fn()
		close(t.done)
	}
	for _, t := range wait {
		<-t.done
	}
}

// stop flushes and refuses further calls.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.flush()
}

func (d *debouncer) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
