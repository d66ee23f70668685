package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/keep/pkg/core"
)

func ids(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestSelect_Precedence(t *testing.T) {
	notes := []core.Note{
		{ID: "A"},
		{ID: "B", Archived: true, Labels: []string{"L1"}},
		{ID: "C", InTrash: true, Labels: []string{"L1"}},
	}

	cases := []struct {
		name   string
		filter core.Filter
		want   []string
	}{
		{"default view", core.Filter{View: core.ViewNotes}, []string{"A"}},
		{"archive view", core.Filter{View: core.ViewArchive}, []string{"B"}},
		{"trash view", core.Filter{View: core.ViewTrash}, []string{"C"}},
		{"label filter", core.Filter{View: core.ViewNotes, Label: "L1"}, []string{"B"}},
		{"trash ignores label", core.Filter{View: core.ViewTrash, Label: "L1"}, []string{"C"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pinned, others := core.Select(notes, tc.filter)
			assert.Empty(t, pinned)
			assert.ElementsMatch(t, tc.want, ids(others))
		})
	}
}

func TestSelect_RemindersView(t *testing.T) {
	r := core.NewTimestamp(time.Now())
	notes := []core.Note{{ID: "a"}, {ID: "b", Reminder: &r}, {ID: "c", Reminder: &r, InTrash: true}}

	_, others := core.Select(notes, core.Filter{View: core.ViewReminders})
	assert.Equal(t, []string{"b"}, ids(others))
}

func TestSelect_PinnedFirstNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) core.Timestamp { return core.NewTimestamp(base.Add(time.Duration(h) * time.Hour)) }

	notes := []core.Note{
		{ID: "old", UpdatedAt: at(1)},
		{ID: "pin-old", Pinned: true, UpdatedAt: at(2)},
		{ID: "new", UpdatedAt: at(5)},
		{ID: "pin-new", Pinned: true, UpdatedAt: at(4)},
	}

	pinned, others := core.Select(notes, core.Filter{})
	assert.Equal(t, []string{"pin-new", "pin-old"}, ids(pinned))
	assert.Equal(t, []string{"new", "old"}, ids(others))
}

func TestSearch(t *testing.T) {
	notes := []core.Note{
		{ID: "1", Title: "Groceries"},
		{ID: "2", Content: "buy GROCERIES"},
		{ID: "3", Title: "groceries", InTrash: true},
		{ID: "4", Title: "other"},
	}
	assert.ElementsMatch(t, []string{"1", "2"}, ids(core.Search(notes, "groceries")))
}
