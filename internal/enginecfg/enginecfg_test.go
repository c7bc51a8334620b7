package enginecfg_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vel5id/vigil/internal/enginecfg"
)

func openTestStore(t *testing.T) *enginecfg.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine-config.db")
	store, err := enginecfg.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetOnMissingRecordReturnsNotOK(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertThenGetRoundTripsAllFields(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := enginecfg.Record{
		Name:      "my-plugin",
		Kind:      enginecfg.KindSubprocess,
		Command:   "/usr/local/bin/ocr-plugin",
		Args:      []string{"--lang", "eng", "--fast"},
		AuthToken: "",
	}
	require.NoError(t, store.Upsert(ctx, rec))

	got, ok, err := store.Get(ctx, "my-plugin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Kind, got.Kind)
	assert.Equal(t, rec.Endpoint, got.Endpoint)
	assert.Equal(t, rec.Command, got.Command)
	assert.Equal(t, rec.Args, got.Args)
	assert.Equal(t, rec.AuthToken, got.AuthToken)
}

func TestUpsertOverwritesExistingRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, enginecfg.Record{Name: "svc", Kind: enginecfg.KindHTTP, Endpoint: "https://a.example.com"}))
	require.NoError(t, store.Upsert(ctx, enginecfg.Record{Name: "svc", Kind: enginecfg.KindHTTP, Endpoint: "https://b.example.com"}))

	got, ok, err := store.Get(ctx, "svc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://b.example.com", got.Endpoint)
}

func TestUpsertWithNoArgsRoundTripsToEmptySlice(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, enginecfg.Record{Name: "bare", Kind: enginecfg.KindHTTP, Endpoint: "https://example.com"}))

	got, ok, err := store.Get(ctx, "bare")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.Args)
}
