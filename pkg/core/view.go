package core

import (
	"cmp"
	"slices"
)

// View is a presentation partition of the note collection.
type View string

const (
	ViewNotes     View = "notes"
	ViewArchive   View = "archive"
	ViewReminders View = "reminders"
	ViewTrash     View = "trash"
)

// ParseView maps a name to a View. The empty string is the default view.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case "":
		return ViewNotes, nil
	case ViewNotes, ViewArchive, ViewReminders, ViewTrash:
		return v, nil
	}
	return "", errorf(ErrValidation, "unknown view %q", s)
}

// Filter selects the notes shown by a view.
type Filter struct {
	View  View
	Label string // active label filter, empty for none
}

// Includes applies the fixed precedence:
//  1. the trash view shows only trashed notes;
//  2. every other view hides trashed notes;
//  3. an active label filter shows every remaining note carrying the label, archived or not;
//  4. the archive view shows only archived notes;
//  5. the reminders view shows only notes with a reminder;
//  6. the default view hides archived notes.
func (f Filter) Includes(n Note) bool {
	if f.View == ViewTrash {
		return n.InTrash
	}
	if n.InTrash {
		return false
	}
	if f.Label != "" {
		return n.HasLabel(f.Label)
	}
	switch f.View {
	case ViewArchive:
		return n.Archived
	case ViewReminders:
		return n.Reminder != nil
	}
	return !n.Archived
}

// SortByUpdated orders notes by UpdatedAt descending. The sort is stable.
func SortByUpdated(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	})
}

// Select filters and sorts notes, then partitions them into pinned and
// unpinned. Both partitions keep the UpdatedAt-descending order.
func Select(notes []Note, f Filter) (pinned, others []Note) {
	matched := make([]Note, 0, len(notes))
	for _, n := range notes {
		if f.Includes(n) {
			matched = append(matched, n)
		}
	}
	SortByUpdated(matched)
	for _, n := range matched {
		if n.Pinned {
			pinned = append(pinned, n)
		} else {
			others = append(others, n)
		}
	}
	return pinned, others
}

// Search returns non-trashed notes matching term, newest first.
func Search(notes []Note, term string) []Note {
	var out []Note
	for _, n := range notes {
		if !n.InTrash && n.Matches(term) {
			out = append(out, n)
		}
	}
	SortByUpdated(out)
	return out
}
