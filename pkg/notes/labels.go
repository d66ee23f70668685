package notes

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/keep/pkg/core"
)

// Labels returns a copy of the label snapshot in store order.
func (m *Manager) Labels() []core.Label {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.labels)
}

// LabelName resolves a label id. A dangling reference, left behind by an
// interrupted DeleteLabel, reports false.
func (m *Manager) LabelName(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.labelIndex(id); i >= 0 {
		return m.labels[i].Name, true
	}
	return "", false
}

// LabelByName finds a label by case-insensitive name.
func (m *Manager) LabelByName(name string) (core.Label, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.labels {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return core.Label{}, false
}

func (m *Manager) labelIndex(id string) int {
	return slices.IndexFunc(m.labels, func(l core.Label) bool { return l.ID == id })
}

// CreateLabel stores a new label.
func (m *Manager) CreateLabel(ctx context.Context, name string) (core.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Label{}, fmt.Errorf("%w: label name is empty", core.ErrValidation)
	}
	l := core.Label{ID: m.newID(), Name: name}
	if err := m.cols.Labels.Put(ctx, l); err != nil {
		return core.Label{}, fmt.Errorf("create label: %w", err)
	}

	m.mu.Lock()
	m.labels = append(m.labels, l)
	labels := slices.Clone(m.labels)
	m.mu.Unlock()

	m.notify.NotifyLabels(labels)
	return l, nil
}

// RenameLabel renames in place. A missing label or an unchanged name is a no-op.
func (m *Manager) RenameLabel(ctx context.Context, id, name string) (*core.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: label name is empty", core.ErrValidation)
	}

	m.mu.Lock()
	i := m.labelIndex(id)
	if i < 0 {
		m.mu.Unlock()
		return nil, nil
	}
	l := m.labels[i]
	if l.Name == name {
		m.mu.Unlock()
		return &l, nil
	}
	l.Name = name
	if err := m.cols.Labels.Put(ctx, l); err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("rename label %s: %w", id, err)
	}
	m.labels[i] = l
	labels := slices.Clone(m.labels)
	m.mu.Unlock()

	m.notify.NotifyLabels(labels)
	return &l, nil
}

// DeleteLabel prunes id from every note carrying it and then deletes the
// label. Each pruned note is its own commit; the label record goes last, so
// an interruption leaves at worst the label plus some still-tagged notes,
// and a later DeleteLabel finishes the job. Pruning does not stamp updatedAt.
//
// It returns the number of notes pruned.
func (m *Manager) DeleteLabel(ctx context.Context, id string) (int, error) {
	pruned := 0
	for _, n := range m.Notes() {
		if !n.HasLabel(id) {
			continue
		}
		n.Labels = slices.DeleteFunc(n.Labels, func(l string) bool { return l == id })
		if err := m.cols.Notes.Put(ctx, n); err != nil {
			return pruned, fmt.Errorf("prune label %s from note %s: %w", id, n.ID, err)
		}
		m.mu.Lock()
		if i := m.noteIndex(n.ID); i >= 0 {
			m.notes[i] = n
		}
		m.mu.Unlock()
		m.notify.NotifyNote(n)
		pruned++
	}

	if err := m.cols.Labels.Delete(ctx, id); err != nil {
		return pruned, fmt.Errorf("delete label %s: %w", id, err)
	}
	m.mu.Lock()
	if i := m.labelIndex(id); i >= 0 {
		m.labels = slices.Delete(m.labels, i, i+1)
	}
	labels := slices.Clone(m.labels)
	m.mu.Unlock()

	m.notify.NotifyLabels(labels)
	m.logger.Debug("label deleted", "id", id, "pruned", pruned)
	return pruned, nil
}
