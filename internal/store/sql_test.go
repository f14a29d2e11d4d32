package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLStore {
	t.Helper()
	st, err := NewSQLStore(context.Background(), BackendSQLite, filepath.Join(t.TempDir(), "db", "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLStore_PutGet(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()

	scanRef, err := st.PutScan(ctx, sampleScan())
	require.NoError(t, err)
	assert.Contains(t, scanRef, "scan-")

	auditRef, err := st.PutAudit(ctx, sampleAudit())
	require.NoError(t, err)

	gotScan, err := st.GetScan(ctx, scanRef)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/model", gotScan.RepoURL)

	gotAudit, err := st.GetAudit(ctx, auditRef)
	require.NoError(t, err)
	assert.Equal(t, []string{"tests"}, gotAudit.Missing())
}

func TestSQLStore_ReadsBypassCache(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()

	ref, err := st.PutScan(ctx, sampleScan())
	require.NoError(t, err)
	st.cache.Purge()

	got, err := st.GetScan(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Structure.TotalFiles)
	assert.True(t, st.cache.Contains(ref))
}

func TestSQLStore_KindIsolation(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()

	ref, err := st.PutScan(ctx, sampleScan())
	require.NoError(t, err)
	st.cache.Purge()

	_, err = st.GetAudit(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_LatestWhenRefEmpty(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()

	_, err := st.GetScan(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	first := sampleScan()
	first.RepoURL = "first"
	_, err = st.PutScan(ctx, first)
	require.NoError(t, err)
	second := sampleScan()
	second.RepoURL = "second"
	_, err = st.PutScan(ctx, second)
	require.NoError(t, err)

	got, err := st.GetScan(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "second", got.RepoURL)
}

func TestSQLStore_UnknownRef(t *testing.T) {
	st := openSQLite(t)
	_, err := st.GetScan(context.Background(), "scan-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewSQLStore_RequiresDSN(t *testing.T) {
	_, err := NewSQLStore(context.Background(), BackendPostgres, "")
	assert.Error(t, err)
	_, err = NewSQLStore(context.Background(), BackendFile, "x")
	assert.Error(t, err)
}

func TestSQLStore_Placeholders(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2"}, (&SQLStore{backend: BackendPostgres}).placeholders(2))
	assert.Equal(t, []string{"?", "?"}, (&SQLStore{backend: BackendMySQL}).placeholders(2))
}
