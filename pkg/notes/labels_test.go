package notes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/typed"
)

func TestLabelLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.mgr.CreateLabel(ctx, "   ")
	assert.ErrorIs(t, err, core.ErrValidation)

	l, err := f.mgr.CreateLabel(ctx, "work")
	require.NoError(t, err)
	name, ok := f.mgr.LabelName(l.ID)
	assert.True(t, ok)
	assert.Equal(t, "work", name)

	renamed, err := f.mgr.RenameLabel(ctx, l.ID, "office")
	require.NoError(t, err)
	assert.Equal(t, "office", renamed.Name)

	stored, err := typed.Open(f.store).Labels.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "office", stored.Name)

	found, ok := f.mgr.LabelByName("OFFICE")
	assert.True(t, ok)
	assert.Equal(t, l.ID, found.ID)

	missing, err := f.mgr.RenameLabel(ctx, "ghost", "x")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.Equal(t, 2, f.rec.labels)
}

func TestDeleteLabelFanOut(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	l, err := f.mgr.CreateLabel(ctx, "L")
	require.NoError(t, err)
	other, err := f.mgr.CreateLabel(ctx, "keep-me")
	require.NoError(t, err)

	n1, _ := f.mgr.Create(ctx, "one", "", "")
	n2, _ := f.mgr.Create(ctx, "two", "", "")
	n3, _ := f.mgr.Create(ctx, "three", "", "")
	_, err = f.mgr.SetLabels(ctx, n1.ID, []string{l.ID})
	require.NoError(t, err)
	_, err = f.mgr.SetLabels(ctx, n2.ID, []string{other.ID})
	require.NoError(t, err)
	_, err = f.mgr.SetLabels(ctx, n3.ID, []string{l.ID, other.ID})
	require.NoError(t, err)
	before := f.stored(t, n1.ID).UpdatedAt

	f.tick()
	pruned, err := f.mgr.DeleteLabel(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)

	assert.Empty(t, f.stored(t, n1.ID).Labels)
	assert.Equal(t, []string{other.ID}, f.stored(t, n2.ID).Labels)
	assert.Equal(t, []string{other.ID}, f.stored(t, n3.ID).Labels)
	assert.Equal(t, before, f.stored(t, n1.ID).UpdatedAt)

	for _, n := range f.mgr.Notes() {
		assert.False(t, n.HasLabel(l.ID), n.ID)
	}

	_, err = typed.Open(f.store).Labels.Get(ctx, l.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, ok := f.mgr.LabelName(l.ID)
	assert.False(t, ok)
}

func TestDanglingLabelReference(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// An interrupted fan-out can leave a note pointing at a deleted label.
	require.NoError(t, typed.Open(f.store).Notes.Put(ctx, core.Note{ID: "n", Labels: []string{"gone"}}))
	require.NoError(t, f.mgr.Reload(ctx))

	name, ok := f.mgr.LabelName("gone")
	assert.False(t, ok)
	assert.Empty(t, name)

	pruned, err := f.mgr.DeleteLabel(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
}
