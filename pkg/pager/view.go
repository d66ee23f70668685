package pager

import (
	"fmt"
	"io"

	"github.com/aretw0/keep/pkg/core"
)

// View is a Sink that keeps the drawn state in memory.
type View struct {
	PinnedNotes []core.Note
	Notes       []core.Note
	Remaining   int
	Redraws     int
}

func (v *View) Reset() {
	v.PinnedNotes, v.Notes, v.Remaining = nil, nil, 0
	v.Redraws++
}

func (v *View) Pinned(notes []core.Note) { v.PinnedNotes = append(v.PinnedNotes, notes...) }

func (v *View) Append(notes []core.Note) { v.Notes = append(v.Notes, notes...) }

func (v *View) More(remaining int) { v.Remaining = remaining }

// Fprint writes the drawn state as text, one line per note. The pinned
// section gets a header only when it is not empty.
func (v *View) Fprint(w io.Writer, line func(core.Note) string) error {
	if len(v.PinnedNotes) > 0 {
		if _, err := fmt.Fprintln(w, "Pinned"); err != nil {
			return err
		}
		for _, n := range v.PinnedNotes {
			if _, err := fmt.Fprintln(w, line(n)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "\nOthers"); err != nil {
			return err
		}
	}
	for _, n := range v.Notes {
		if _, err := fmt.Fprintln(w, line(n)); err != nil {
			return err
		}
	}
	if v.Remaining > 0 {
		_, err := fmt.Fprintf(w, "... %d more\n", v.Remaining)
		return err
	}
	return nil
}

var _ Sink = (*View)(nil)
