// Package transfer moves whole collections in and out of the Local Store:
// the snapshot document used for backup and restore, and converters from
// a Google Keep Takeout export and from a folder tree of markdown files.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/typed"
)

const (
	// DefaultChunkSize is the number of notes written between yields.
	DefaultChunkSize = 100

	// DefaultYield is the pause between chunks.
	DefaultYield = 10 * time.Millisecond
)

// Export writes notes and labels as one snapshot document.
func Export(w io.Writer, notes []core.Note, labels []core.Label, indent bool) error {
	snap := core.Snapshot{Notes: notes, Labels: labels}
	if snap.Notes == nil {
		snap.Notes = []core.Note{}
	}
	if snap.Labels == nil {
		snap.Labels = []core.Label{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	return nil
}

// Decode parses a snapshot document.
func Decode(r io.Reader) (core.Snapshot, error) {
	var snap core.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return snap, fmt.Errorf("%w: snapshot is not valid JSON: %v", core.ErrValidation, err)
	}
	return snap, nil
}

// Option configures an Importer.
type Option func(*Importer)

// WithChunkSize sets how many notes are written between yields.
func WithChunkSize(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.chunk = n
		}
	}
}

// WithYield sets the pause between chunks. Zero disables it.
func WithYield(d time.Duration) Option {
	return func(i *Importer) {
		if d >= 0 {
			i.yield = d
		}
	}
}

// WithLogger sets the logger used for progress.
func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) {
		if l != nil {
			i.logger = l
		}
	}
}

// Importer writes snapshots into the Local Store.
type Importer struct {
	cols   typed.Collections
	chunk  int
	yield  time.Duration
	logger *slog.Logger
}

// NewImporter creates an Importer over store.
func NewImporter(store core.Store, opts ...Option) *Importer {
	i := &Importer{
		cols:   typed.Open(store),
		chunk:  DefaultChunkSize,
		yield:  DefaultYield,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportResult counts what was written.
type ImportResult struct {
	Labels int
	Notes  int
	Chunks int
}

// Import decodes a snapshot from r and writes it.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	snap, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return i.Write(ctx, snap)
}

// Write validates the whole snapshot, then stores every label followed by
// the notes in chunks, pausing between chunks. Records are keyed by id and
// overwrite existing ones; nothing is deduplicated. An invalid record aborts
// before anything is written. A store failure aborts mid-way and leaves the
// chunks already committed.
//
// The caller must reload any in-memory snapshot afterwards.
func (i *Importer) Write(ctx context.Context, snap core.Snapshot) (*ImportResult, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	res := &ImportResult{}

	for _, l := range snap.Labels {
		if err := i.cols.Labels.Put(ctx, l); err != nil {
			return res, fmt.Errorf("import label %s: %w", l.ID, err)
		}
		res.Labels++
	}
	if res.Labels > 0 {
		i.logger.Info("labels imported", "count", res.Labels)
	}

	total := len(snap.Notes)
	for start := 0; start < total; start += i.chunk {
		end := min(start+i.chunk, total)
		for _, n := range snap.Notes[start:end] {
			if n.Color == "" {
				n.Color = core.ColorDefault
			}
			if err := i.cols.Notes.Put(ctx, n.Clone()); err != nil {
				return res, fmt.Errorf("import note %s: %w", n.ID, err)
			}
			res.Notes++
		}
		res.Chunks++
		i.logger.Info("import progress", "done", end, "total", total)

		if end < total {
			if err := i.pause(ctx); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (i *Importer) pause(ctx context.Context) error {
	if i.yield == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(i.yield)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
