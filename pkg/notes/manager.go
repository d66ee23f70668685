// Package notes owns the Note and Label lifecycles.
//
// A Manager holds the in-memory snapshot of both collections. Every mutation
// writes through to the Local Store before the snapshot is updated and the
// Notifier (normally the sync engine) is told about the change. The snapshot
// is never refreshed implicitly: after an import or a remote pull the caller
// must call Reload.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/typed"
)

// Notifier receives committed changes.
type Notifier interface {
	NotifyNote(n core.Note)
	NotifyNoteDeleted(id string)
	NotifyLabels(labels []core.Label)
}

type nopNotifier struct{}

func (nopNotifier) NotifyNote(core.Note)      {}
func (nopNotifier) NotifyNoteDeleted(string)  {}
func (nopNotifier) NotifyLabels([]core.Label) {}

// Field names a free-text note field.
type Field string

const (
	FieldTitle   Field = "title"
	FieldContent Field = "content"
)

// ParseField maps a name to a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(s)); f {
	case FieldTitle, FieldContent:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown field %q", core.ErrValidation, s)
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets the receiver of committed changes.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notify = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// Manager mutates notes and labels.
type Manager struct {
	cols   typed.Collections
	notify Notifier
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu     sync.Mutex
	notes  []core.Note
	labels []core.Label
}

// New creates a Manager over store. The snapshot starts empty; call Reload.
func New(store core.Store, opts ...Option) *Manager {
	m := &Manager{
		cols:   typed.Open(store),
		notify: nopNotifier{},
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		newID:  newID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// newID returns a UUIDv7: unique, and ordered by creation time when compared as strings.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (m *Manager) stamp() core.Timestamp {
	return core.NewTimestamp(m.now())
}

// Reload replaces the snapshot with the current Local Store contents.
// Notes are ordered by updatedAt, newest first.
func (m *Manager) Reload(ctx context.Context) error {
	notes, err := m.cols.Notes.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reload notes: %w", err)
	}
	labels, err := m.cols.Labels.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reload labels: %w", err)
	}
	core.SortByUpdated(notes)

	m.mu.Lock()
	m.notes, m.labels = notes, labels
	m.mu.Unlock()

	m.logger.Debug("snapshot reloaded", "notes", len(notes), "labels", len(labels))
	return nil
}

// Notes returns a copy of the note snapshot.
func (m *Manager) Notes() []core.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Note, len(m.notes))
	for i, n := range m.notes {
		out[i] = n.Clone()
	}
	return out
}

// Note returns one note from the snapshot.
func (m *Manager) Note(id string) (core.Note, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.noteIndex(id); i >= 0 {
		return m.notes[i].Clone(), true
	}
	return core.Note{}, false
}

func (m *Manager) noteIndex(id string) int {
	return slices.IndexFunc(m.notes, func(n core.Note) bool { return n.ID == id })
}

// Create stores a new note. Nothing is stored, and nil is returned, when
// both title and content are blank.
func (m *Manager) Create(ctx context.Context, title, content string, color core.Color) (*core.Note, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" && content == "" {
		return nil, nil
	}
	if color == "" {
		color = core.ColorDefault
	}
	if !color.Valid() {
		return nil, fmt.Errorf("%w: unknown color %q", core.ErrValidation, color)
	}
	m.checkLength(content)

	now := m.stamp()
	n := core.Note{
		ID:        m.newID(),
		Title:     title,
		Content:   content,
		Color:     color,
		Labels:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.cols.Notes.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	m.mu.Lock()
	m.notes = slices.Insert(m.notes, 0, n)
	m.mu.Unlock()

	m.notify.NotifyNote(n)
	m.logger.Debug("note created", "id", n.ID)
	out := n.Clone()
	return &out, nil
}

// mutate runs the shared look up, apply, stamp, persist, notify sequence.
// A missing note yields (nil, nil). apply may return errSkip to leave the
// note untouched.
func (m *Manager) mutate(ctx context.Context, id string, apply func(n *core.Note) error) (*core.Note, error) {
	m.mu.Lock()
	i := m.noteIndex(id)
	if i < 0 {
		m.mu.Unlock()
		return nil, nil
	}
	n := m.notes[i].Clone()
	if err := apply(&n); err != nil {
		m.mu.Unlock()
		if errors.Is(err, errSkip) {
			out := n
			return &out, nil
		}
		return nil, err
	}
	n.UpdatedAt = m.stamp()
	if err := m.cols.Notes.Put(ctx, n); err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("save note %s: %w", id, err)
	}
	m.notes[i] = n
	m.mu.Unlock()

	m.notify.NotifyNote(n)
	out := n.Clone()
	return &out, nil
}

var errSkip = errors.New("unchanged")

// SetField replaces the title or the content. An unchanged value is not a mutation.
func (m *Manager) SetField(ctx context.Context, id string, field Field, value string) (*core.Note, error) {
	if field != FieldTitle && field != FieldContent {
		return nil, fmt.Errorf("%w: unknown field %q", core.ErrValidation, field)
	}
	if field == FieldContent {
		m.checkLength(value)
	}
	return m.mutate(ctx, id, func(n *core.Note) error {
		target := &n.Title
		if field == FieldContent {
			target = &n.Content
		}
		if *target == value {
			return errSkip
		}
		*target = value
		return nil
	})
}

// SetReminder sets or, with nil, clears the reminder.
func (m *Manager) SetReminder(ctx context.Context, id string, at *core.Timestamp) (*core.Note, error) {
	return m.mutate(ctx, id, func(n *core.Note) error {
		if at == nil {
			n.Reminder = nil
			return nil
		}
		r := *at
		n.Reminder = &r
		return nil
	})
}

// TogglePin flips pinned.
func (m *Manager) TogglePin(ctx context.Context, id string) (*core.Note, error) {
	return m.mutate(ctx, id, func(n *core.Note) error {
		n.Pinned = !n.Pinned
		return nil
	})
}

// ToggleArchive flips archived.
func (m *Manager) ToggleArchive(ctx context.Context, id string) (*core.Note, error) {
	return m.mutate(ctx, id, func(n *core.Note) error {
		n.Archived = !n.Archived
		return nil
	})
}

// SetColor changes the color. Colors outside the palette are rejected
// before the note is touched.
func (m *Manager) SetColor(ctx context.Context, id string, color core.Color) (*core.Note, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("%w: unknown color %q", core.ErrValidation, color)
	}
	return m.mutate(ctx, id, func(n *core.Note) error {
		n.Color = color
		return nil
	})
}

// SetLabels replaces the label set. Duplicates are dropped.
func (m *Manager) SetLabels(ctx context.Context, id string, labels []string) (*core.Note, error) {
	set := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" && !slices.Contains(set, l) {
			set = append(set, l)
		}
	}
	return m.mutate(ctx, id, func(n *core.Note) error {
		n.Labels = set
		return nil
	})
}

// SoftDelete moves the note to the trash and unpins it.
func (m *Manager) SoftDelete(ctx context.Context, id string) (*core.Note, error) {
	return m.mutate(ctx, id, func(n *core.Note) error {
		n.InTrash = true
		n.Pinned = false
		return nil
	})
}

// Restore takes the note out of the trash.
func (m *Manager) Restore(ctx context.Context, id string) (*core.Note, error) {
	return m.mutate(ctx, id, func(n *core.Note) error {
		n.InTrash = false
		return nil
	})
}

// HardDelete destroys a trashed note. A note that is not in the trash is
// soft-deleted instead, so the first delete trashes and the second destroys.
// destroyed reports whether the record was removed.
func (m *Manager) HardDelete(ctx context.Context, id string) (destroyed bool, err error) {
	m.mu.Lock()
	i := m.noteIndex(id)
	if i < 0 {
		m.mu.Unlock()
		return false, nil
	}
	if !m.notes[i].InTrash {
		m.mu.Unlock()
		_, err := m.SoftDelete(ctx, id)
		return false, err
	}
	if err := m.cols.Notes.Delete(ctx, id); err != nil {
		m.mu.Unlock()
		return false, fmt.Errorf("delete note %s: %w", id, err)
	}
	m.notes = slices.Delete(m.notes, i, i+1)
	m.mu.Unlock()

	m.notify.NotifyNoteDeleted(id)
	m.logger.Debug("note destroyed", "id", id)
	return true, nil
}

// EmptyTrash destroys every trashed note and returns how many were removed.
func (m *Manager) EmptyTrash(ctx context.Context) (int, error) {
	var ids []string
	for _, n := range m.Notes() {
		if n.InTrash {
			ids = append(ids, n.ID)
		}
	}
	count := 0
	for _, id := range ids {
		ok, err := m.HardDelete(ctx, id)
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

func (m *Manager) checkLength(content string) {
	if n := ContentLength(content); n > WarnLength {
		m.logger.Warn("note content near the length cap", "length", n, "cap", MaxContentLength)
	}
}
