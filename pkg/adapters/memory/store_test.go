package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/adapters/memory"
	"github.com/aretw0/keep/pkg/adapters/storetest"
	"github.com/aretw0/keep/pkg/core"
)

func newStore(t *testing.T) core.Store {
	s := memory.New()
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, newStore)
}

func TestStore_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Put(ctx, core.CollectionNotes, core.Record{ID: id, Data: []byte(`{}`)}))
	}
	require.NoError(t, s.Put(ctx, core.CollectionNotes, core.Record{ID: "a", Data: []byte(`{"v":2}`)}))

	all, err := s.GetAll(ctx, core.CollectionNotes)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "b", all[2].ID)
}

func TestStore_Closed(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Close())

	err := s.Put(context.Background(), core.CollectionNotes, core.Record{ID: "x"})
	assert.ErrorIs(t, err, core.ErrStorage)
}
