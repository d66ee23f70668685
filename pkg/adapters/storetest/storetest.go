// Package storetest is a conformance suite for core.Store implementations.
package storetest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
)

// Factory returns a fresh, initialized store.
type Factory func(t *testing.T) core.Store

// Run executes every conformance test against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("PutGet", func(t *testing.T) { testPutGet(t, newStore(t)) })
	t.Run("GetAbsent", func(t *testing.T) { testGetAbsent(t, newStore(t)) })
	t.Run("DeleteIdempotent", func(t *testing.T) { testDeleteIdempotent(t, newStore(t)) })
	t.Run("CollectionsIsolated", func(t *testing.T) { testIsolated(t, newStore(t)) })
	t.Run("InitializeIdempotent", func(t *testing.T) { testInitialize(t, newStore(t)) })
	t.Run("LastWriteWins", func(t *testing.T) { testLastWriteWins(t, newStore(t)) })
}

func testPutGet(t *testing.T, s core.Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, core.CollectionNotes, core.Record{ID: "n1", Data: []byte(`{"id":"n1","title":"a"}`)}))
	require.NoError(t, s.Put(ctx, core.CollectionNotes, core.Record{ID: "n1", Data: []byte(`{"id":"n1","title":"b"}`)}))

	rec, err := s.Get(ctx, core.CollectionNotes, "n1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"n1","title":"b"}`, string(rec.Data))

	all, err := s.GetAll(ctx, core.CollectionNotes)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testGetAbsent(t *testing.T, s core.Store) {
	_, err := s.Get(context.Background(), core.CollectionLabels, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func testDeleteIdempotent(t *testing.T, s core.Store) {
	ctx := context.Background()
	require.NoError(t, s.Delete(ctx, core.CollectionNotes, "never-existed"))

	require.NoError(t, s.Put(ctx, core.CollectionNotes, core.Record{ID: "x", Data: []byte(`{}`)}))
	require.NoError(t, s.Delete(ctx, core.CollectionNotes, "x"))
	require.NoError(t, s.Delete(ctx, core.CollectionNotes, "x"))

	_, err := s.Get(ctx, core.CollectionNotes, "x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func testIsolated(t *testing.T, s core.Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, core.CollectionSettings, core.Record{ID: "k", Data: []byte(`{"id":"k","value":"v"}`)}))

	_, err := s.Get(ctx, core.CollectionNotes, "k")
	assert.ErrorIs(t, err, core.ErrNotFound)

	labels, err := s.GetAll(ctx, core.CollectionLabels)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func testInitialize(t *testing.T, s core.Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, core.CollectionLabels, core.Record{ID: "l", Data: []byte(`{"id":"l"}`)}))
	require.NoError(t, s.Initialize(ctx))

	_, err := s.Get(ctx, core.CollectionLabels, "l")
	assert.NoError(t, err, "re-initializing must keep existing records")
}

// testLastWriteWins checks that after any put/delete sequence GetAll holds
// exactly the last write per id and no deleted id.
func testLastWriteWins(t *testing.T, s core.Store) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(7, 11))
	want := map[string]string{}

	for i := range 300 {
		id := fmt.Sprintf("id-%d", rng.IntN(25))
		if rng.IntN(3) == 0 {
			require.NoError(t, s.Delete(ctx, core.CollectionNotes, id))
			delete(want, id)
			continue
		}
		body := fmt.Sprintf(`{"id":%q,"seq":%d}`, id, i)
		require.NoError(t, s.Put(ctx, core.CollectionNotes, core.Record{ID: id, Data: []byte(body)}))
		want[id] = body
	}

	all, err := s.GetAll(ctx, core.CollectionNotes)
	require.NoError(t, err)

	got := map[string]string{}
	for _, rec := range all {
		_, dup := got[rec.ID]
		require.False(t, dup, "duplicate id %s", rec.ID)
		got[rec.ID] = string(rec.Data)
	}
	assert.Equal(t, want, got)
}
