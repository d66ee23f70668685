// Package pager materializes large sorted note collections a chunk at a time.
//
// Pinned notes are always shown in full. Unpinned notes are shown up to a
// limit that grows by Step each time LoadMore is called; while anything is
// left the sink shows a "load more" affordance with the remaining count.
package pager

import "github.com/aretw0/keep/pkg/core"

const (
	DefaultInitial = 200
	DefaultStep    = 200
)

// Sink is the presentation layer the renderer draws into.
type Sink interface {
	// Reset clears everything drawn so far.
	Reset()
	// Pinned draws the pinned section.
	Pinned(notes []core.Note)
	// Append adds notes at the end of the unpinned section.
	Append(notes []core.Note)
	// More shows the load-more affordance, or hides it when remaining is 0.
	More(remaining int)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithInitial sets the size of the first unpinned chunk.
func WithInitial(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.initial = n
		}
	}
}

// WithStep sets how many notes LoadMore adds.
func WithStep(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.step = n
		}
	}
}

// Renderer drives a Sink.
type Renderer struct {
	sink    Sink
	initial int
	step    int

	pinned []core.Note
	others []core.Note
	limit  int
}

// New creates a renderer for sink.
func New(sink Sink, opts ...Option) *Renderer {
	r := &Renderer{sink: sink, initial: DefaultInitial, step: DefaultStep}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws a new collection from scratch, showing the first chunk.
func (r *Renderer) Render(pinned, others []core.Note) {
	r.pinned, r.others = pinned, others
	r.limit = r.initial
	r.redraw()
}

func (r *Renderer) redraw() {
	r.sink.Reset()
	if len(r.pinned) > 0 {
		r.sink.Pinned(r.pinned)
	}
	r.sink.Append(r.others[:r.Shown()])
	r.sink.More(r.Remaining())
}

// LoadMore shows the next chunk. When notes remain afterwards the whole
// view is redrawn so the remaining count is current; otherwise the last
// chunk is appended and the affordance removed. It reports whether
// anything was added.
func (r *Renderer) LoadMore() bool {
	if r.Remaining() == 0 {
		return false
	}
	prev := r.Shown()
	r.limit += r.step
	if r.Remaining() > 0 {
		r.redraw()
		return true
	}
	r.sink.Append(r.others[prev:])
	r.sink.More(0)
	return true
}

// Shown is the number of unpinned notes currently drawn.
func (r *Renderer) Shown() int {
	return min(r.limit, len(r.others))
}

// Remaining is the number of unpinned notes not drawn yet.
func (r *Renderer) Remaining() int {
	return len(r.others) - r.Shown()
}
