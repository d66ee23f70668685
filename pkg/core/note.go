// Package core holds the domain of the notes store: entities, the Local Store
// contract, view filtering and the error taxonomy shared by every adapter.
package core

import (
	"slices"
	"strings"
)

// Note is the central entity of the domain.
// Field names on the wire follow the snapshot document format.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Color     Color      `json:"color"`
	Labels    []string   `json:"labels"`
	Pinned    bool       `json:"pinned"`
	Archived  bool       `json:"archived"`
	InTrash   bool       `json:"inTrash"`
	Reminder  *Timestamp `json:"reminder"`
	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt Timestamp  `json:"updatedAt"`
}

// GetID implements typed.Record.
func (n Note) GetID() string { return n.ID }

// HasLabel reports whether the note carries the label id.
func (n Note) HasLabel(id string) bool {
	return slices.Contains(n.Labels, id)
}

// Matches reports a case-insensitive substring match on title or content.
func (n Note) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.Content), term)
}

// Clone returns a copy that shares no slices or pointers with n.
func (n Note) Clone() Note {
	c := n
	c.Labels = slices.Clone(n.Labels)
	if c.Labels == nil {
		c.Labels = []string{}
	}
	if n.Reminder != nil {
		r := *n.Reminder
		c.Reminder = &r
	}
	return c
}

// Validate checks the fields required for a record to be stored.
func (n Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errorf(ErrValidation, "note has no id")
	}
	if err := CheckID(n.ID); err != nil {
		return err
	}
	if n.Color != "" && !n.Color.Valid() {
		return errorf(ErrValidation, "note %s: unknown color %q", n.ID, n.Color)
	}
	return nil
}
