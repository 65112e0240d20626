package kv

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_GetMissingKey(t *testing.T) {
	s := openTestStore(t)

	v, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_SetGetOverwriteDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	require.NoError(t, s.Set(ctx, "k", []byte("v2")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	s1, err := OpenSQLite(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "equipment-checklist", []byte(`[]`)))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(ctx, dir)
	require.NoError(t, err)
	defer s2.Close()

	v, err := s2.Get(ctx, "equipment-checklist")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_SetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv")).
		WithArgs("k", []byte("v")).
		WillReturnError(errors.New("disk full"))

	err = NewSQLiteStore(db).Set(context.Background(), "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_GetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv")).
		WithArgs("k").
		WillReturnError(errors.New("locked"))

	_, err = NewSQLiteStore(db).Get(context.Background(), "k")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	v, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)

	require.NoError(t, m.Delete(ctx, "k"))
	v, _ = m.Get(ctx, "k")
	assert.Nil(t, v)
}
