package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/adapters/sqlite"
	"github.com/aretw0/keep/pkg/adapters/storetest"
	"github.com/aretw0/keep/pkg/core"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) core.Store {
		return openStore(t, filepath.Join(t.TempDir(), sqlite.DefaultFile))
	})
}

func TestStore_Durable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", sqlite.DefaultFile)

	s, err := sqlite.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Put(ctx, core.CollectionNotes, core.Record{ID: "n1", Data: []byte(`{"id":"n1"}`)}))
	require.NoError(t, s.Close())

	reopened := openStore(t, path)
	rec, err := reopened.Get(ctx, core.CollectionNotes, "n1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"n1"}`, string(rec.Data))
}

func TestStore_PutFailureIsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO notes").
		WithArgs("n1", `{"id":"n1"}`).
		WillReturnError(errors.New("database or disk is full"))

	s := sqlite.NewWithDB(db, nil)
	err = s.Put(context.Background(), core.CollectionNotes, core.Record{ID: "n1", Data: []byte(`{"id":"n1"}`)})

	assert.ErrorIs(t, err, core.ErrStorage)
	assert.Contains(t, err.Error(), "disk is full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteFailureIsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM labels WHERE id = ?").
		WithArgs("l1").
		WillReturnError(errors.New("database disk image is malformed"))

	s := sqlite.NewWithDB(db, nil)
	err = s.Delete(context.Background(), core.CollectionLabels, "l1")

	assert.ErrorIs(t, err, core.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetAbsentWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT data FROM settings WHERE id = ?").
		WithArgs("githubToken").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	s := sqlite.NewWithDB(db, nil)
	_, err = s.Get(context.Background(), core.CollectionSettings, "githubToken")

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RejectsNewerSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("PRAGMA user_version").
		WillReturnRows(sqlmock.NewRows([]string{"user_version"}).AddRow(sqlite.SchemaVersion + 1))

	s := sqlite.NewWithDB(db, nil)
	err = s.Initialize(context.Background())

	assert.ErrorIs(t, err, core.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UnknownCollection(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), sqlite.DefaultFile))
	_, err := s.GetAll(context.Background(), core.Collection("notes; DROP TABLE notes"))
	assert.ErrorIs(t, err, core.ErrStorage)
}
