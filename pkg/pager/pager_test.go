package pager_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/pager"
)

func notes(prefix string, n int) []core.Note {
	out := make([]core.Note, n)
	for i := range out {
		out[i] = core.Note{ID: fmt.Sprintf("%s%03d", prefix, i)}
	}
	return out
}

func TestRenderer_450Notes(t *testing.T) {
	v := &pager.View{}
	r := pager.New(v)
	others := notes("n", 450)

	r.Render(nil, others)
	assert.Len(t, v.Notes, 200)
	assert.Equal(t, 250, v.Remaining)

	assert.True(t, r.LoadMore())
	assert.Len(t, v.Notes, 400)
	assert.Equal(t, 50, v.Remaining)
	assert.Equal(t, 2, v.Redraws, "a chunk with a remainder redraws the whole view")

	assert.True(t, r.LoadMore())
	assert.Len(t, v.Notes, 450)
	assert.Zero(t, v.Remaining)
	assert.Equal(t, 2, v.Redraws, "the last chunk is appended")
	assert.Equal(t, others, v.Notes)

	assert.False(t, r.LoadMore())
}

func TestRenderer_PinnedNeverPaginated(t *testing.T) {
	v := &pager.View{}
	r := pager.New(v, pager.WithInitial(10), pager.WithStep(10))

	r.Render(notes("p", 25), notes("n", 15))
	assert.Len(t, v.PinnedNotes, 25)
	assert.Len(t, v.Notes, 10)
	assert.Equal(t, 5, v.Remaining)

	r.LoadMore()
	assert.Len(t, v.PinnedNotes, 25)
	assert.Len(t, v.Notes, 15)
}

func TestRenderer_SmallCollectionHasNoAffordance(t *testing.T) {
	v := &pager.View{}
	r := pager.New(v)
	r.Render(nil, notes("n", 3))

	assert.Len(t, v.Notes, 3)
	assert.Zero(t, v.Remaining)
	assert.Zero(t, r.Remaining())
}

func TestRenderer_RenderResetsLimit(t *testing.T) {
	v := &pager.View{}
	r := pager.New(v, pager.WithInitial(2), pager.WithStep(2))
	r.Render(nil, notes("n", 10))
	r.LoadMore()
	assert.Equal(t, 4, r.Shown())

	r.Render(nil, notes("m", 10))
	assert.Equal(t, 2, r.Shown())
	assert.Equal(t, "m000", v.Notes[0].ID)
}

func TestView_Fprint(t *testing.T) {
	v := &pager.View{}
	r := pager.New(v, pager.WithInitial(2))
	r.Render(notes("p", 1), notes("n", 3))

	var buf strings.Builder
	require.NoError(t, v.Fprint(&buf, func(n core.Note) string { return "- " + n.ID }))
	assert.Equal(t, "Pinned\n- p000\n\nOthers\n- n000\n- n001\n... 1 more\n", buf.String())

	r.LoadMore()
	buf.Reset()
	require.NoError(t, v.Fprint(&buf, func(n core.Note) string { return n.ID }))
	assert.Equal(t, "Pinned\np000\n\nOthers\nn000\nn001\nn002\n", buf.String())
}
