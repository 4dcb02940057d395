package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invdash/internal/model"
	"invdash/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	doc := &model.Document{
		Products: []model.Product{{ID: 1, Name: "Wireless Headphones", Price: 2999, Stock: 50}},
		Settings: model.Settings{NextFileID: 1, NextProductID: 2, NextOrderID: 1},
	}
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Products, got.Products)
	assert.Equal(t, doc.Settings, got.Settings)
}

func TestStore_Corrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutRaw([]byte("garbage")))

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrCorruptData)
}

func TestStore_Closed(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}

func TestOpen_RequiresDir(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpen_OnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, &model.Document{Settings: model.Settings{NextFileID: 9}}))
	require.NoError(t, s.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Settings.NextFileID)
}
