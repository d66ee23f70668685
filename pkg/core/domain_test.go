package core_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
)

func TestParseColor(t *testing.T) {
	c, err := core.ParseColor("  Teal ")
	require.NoError(t, err)
	assert.Equal(t, core.ColorTeal, c)

	c, err = core.ParseColor("BLUE")
	require.NoError(t, err)
	assert.Equal(t, core.ColorBlue, c)

	c, err = core.ParseColor("")
	require.NoError(t, err)
	assert.Equal(t, core.ColorDefault, c)

	_, err = core.ParseColor("magenta")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCollectionValid(t *testing.T) {
	for _, c := range core.Collections {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, core.Collection("notes; DROP TABLE notes").Valid())
}

func TestNoteClone(t *testing.T) {
	at, err := core.ParseTimestamp("2025-01-01T00:00:00Z")
	require.NoError(t, err)
	n := core.Note{ID: "a", Labels: []string{"x"}, Reminder: &at}

	c := n.Clone()
	c.Labels[0] = "y"
	c.Reminder.Time = c.Reminder.AddDate(1, 0, 0)
	assert.Equal(t, "x", n.Labels[0])
	assert.Equal(t, 2025, n.Reminder.Year())

	assert.Equal(t, []string{}, core.Note{ID: "b"}.Clone().Labels)
}

func TestSnapshotValidate(t *testing.T) {
	ok := core.Snapshot{
		Notes:  []core.Note{{ID: "n1", Color: core.ColorRed}, {ID: "n2"}},
		Labels: []core.Label{{ID: "l1", Name: "work"}},
	}
	assert.NoError(t, ok.Validate())

	cases := map[string]core.Snapshot{
		"note without id":  {Notes: []core.Note{{ID: "n1"}, {Title: "orphan"}}},
		"label without id": {Labels: []core.Label{{Name: "x"}}},
		"unknown color":    {Notes: []core.Note{{ID: "n1", Color: "magenta"}}},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, snap.Validate(), core.ErrValidation)
		})
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, core.IsRemote(fmt.Errorf("push: %w", core.ErrRemoteConflict)))
	assert.True(t, core.IsRemote(core.ErrRemoteAuth))
	assert.False(t, core.IsRemote(core.ErrNotConfigured))
	assert.False(t, core.IsRemote(core.ErrStorage))
}

func TestCheckID(t *testing.T) {
	for _, id := range []string{"n1", "0190a3b2-7c4e-7000-8000-000000000000", "a.b", "media_1.jpg"} {
		assert.NoError(t, core.CheckID(id), id)
	}
	for _, id := range []string{"", "  ", "../labels", "a/b", `a\b`, "..", ".", "x..y"} {
		assert.ErrorIs(t, core.CheckID(id), core.ErrValidation, id)
	}
	assert.ErrorIs(t, core.Note{ID: "../labels"}.Validate(), core.ErrValidation)
	assert.ErrorIs(t, core.Label{ID: "a/b"}.Validate(), core.ErrValidation)
}
