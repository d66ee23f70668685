package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/notes"
)

// findNote resolves an id or a unique id prefix.
func findNote(app *keep.App, ref string) (core.Note, error) {
	if n, ok := app.Notes.Note(ref); ok {
		return n, nil
	}
	var found []core.Note
	for _, n := range app.Notes.Notes() {
		if strings.HasPrefix(n.ID, ref) {
			found = append(found, n)
		}
	}
	switch len(found) {
	case 0:
		return core.Note{}, fmt.Errorf("%w: note %s", core.ErrNotFound, ref)
	case 1:
		return found[0], nil
	}
	return core.Note{}, fmt.Errorf("%w: %q matches %d notes", core.ErrValidation, ref, len(found))
}

// labelIDs maps label names to ids, creating missing labels when create is set.
func labelIDs(ctx context.Context, app *keep.App, names []string, create bool) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if l, ok := app.Notes.LabelByName(name); ok {
			ids = append(ids, l.ID)
			continue
		}
		if !create {
			return nil, fmt.Errorf("%w: label %q", core.ErrNotFound, name)
		}
		l, err := app.Notes.CreateLabel(ctx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, l.ID)
	}
	return ids, nil
}

func title(n core.Note) string {
	if n.Title != "" {
		return n.Title
	}
	first, _, _ := strings.Cut(strings.TrimSpace(n.Content), "\n")
	if r := []rune(first); len(r) > 40 {
		first = string(r[:40]) + "..."
	}
	if first == "" {
		return "(empty)"
	}
	return first
}

func labelNames(app *keep.App, n core.Note) []string {
	names := make([]string, 0, len(n.Labels))
	for _, id := range n.Labels {
		if name, ok := app.Notes.LabelName(id); ok {
			names = append(names, name)
		}
	}
	return names
}

// summary is the one-line form used by list and search.
func summary(app *keep.App) func(core.Note) string {
	return func(n core.Note) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s  %-8s %s", n.ID, n.Color, title(n))
		if names := labelNames(app, n); len(names) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(names, ", "))
		}
		if n.Reminder != nil {
			fmt.Fprintf(&b, "  @%s", n.Reminder.Local().Format("2006-01-02 15:04"))
		}
		return b.String()
	}
}

func printNote(w io.Writer, app *keep.App, n core.Note) {
	fmt.Fprintf(w, "ID:       %s\n", n.ID)
	fmt.Fprintf(w, "Title:    %s\n", n.Title)
	fmt.Fprintf(w, "Color:    %s\n", n.Color)
	if names := labelNames(app, n); len(names) > 0 {
		fmt.Fprintf(w, "Labels:   %s\n", strings.Join(names, ", "))
	}
	var flags []string
	if n.Pinned {
		flags = append(flags, "pinned")
	}
	if n.Archived {
		flags = append(flags, "archived")
	}
	if n.InTrash {
		flags = append(flags, "in trash")
	}
	if len(flags) > 0 {
		fmt.Fprintf(w, "State:    %s\n", strings.Join(flags, ", "))
	}
	if n.Reminder != nil {
		fmt.Fprintf(w, "Reminder: %s\n", n.Reminder.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "Created:  %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:  %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Length:   %d/%d\n", notes.ContentLength(n.Content), notes.MaxContentLength)
	if n.Content != "" {
		fmt.Fprintf(w, "\n%s\n", n.Content)
	}
}

// readContent returns s, or stdin when s is "-".
func readContent(s string) (string, error) {
	if s != "-" {
		return s, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
