package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestKey(t *testing.T) {
	assert.Equal(t, "smartfolio_sui_assets", Key(DefaultPrefix, "sui", FieldAssets))
	assert.Equal(t, "smartfolio_activeAccount", ActiveKey(DefaultPrefix))
}

func testKV(t *testing.T, kv KV) {
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "a", []byte(`{"x":1}`)))
	v, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(v))

	require.NoError(t, kv.Set(ctx, "a", []byte(`2`)))
	v, err = kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `2`, string(v))

	require.NoError(t, kv.Delete(ctx, "a"))
	require.NoError(t, kv.Delete(ctx, "a"))
	_, err = kv.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemory())
}

func TestSQLiteKV(t *testing.T) {
	s, _ := newTestSQLite(t)
	testKV(t, s)
}

func TestSQLiteSchemaCreated(t *testing.T) {
	s, path := newTestSQLite(t)
	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv", name)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, Key(DefaultPrefix, "sui", FieldTarget), []byte("10000")))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, Key(DefaultPrefix, "sui", FieldTarget))
	require.NoError(t, err)
	assert.Equal(t, "10000", string(v))
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLite(t)
	m := NewMemory()
	for _, k := range []string{"p_sui_assets", "p_alts_assets", "other"} {
		require.NoError(t, s.Set(ctx, k, []byte("1")))
		require.NoError(t, m.Set(ctx, k, []byte("1")))
	}

	got, err := s.Keys(ctx, "p_")
	require.NoError(t, err)
	assert.Equal(t, []string{"p_alts_assets", "p_sui_assets"}, got)
	fromMemory, err := m.Keys(ctx, "p_")
	require.NoError(t, err)
	assert.Equal(t, got, fromMemory)

	var _ Lister = s
	var _ Lister = m
}

func TestMemoryFailure(t *testing.T) {
	quota := errors.New("quota exceeded")
	m := NewMemory()
	m.Fail = func(string) error { return quota }

	assert.ErrorIs(t, m.Set(context.Background(), "a", []byte("1")), quota)
	_, err := m.Get(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
