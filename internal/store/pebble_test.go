package store

import (
	"context"
	"testing"
	"time"

	"shelfwatch/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) RecordStore {
	t.Helper()

	s, err := NewPebbleStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPebbleStore_GetAbsent(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPebbleStore_PutGetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := model.Record{
		ID:                  "A1",
		Brand:               "Acme",
		DisplayName:         "Widget",
		ListPrice:           9.99,
		Active:              true,
		InStockQuantity:     12,
		StockStatus:         "IN_STOCK",
		PrimaryFullImageURL: "https://shop.example.com/images/a1.jpg",
		ProductURL:          "https://shop.example.com/product/A1",
	}

	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, got.Record)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestPebbleStore_PutOverwritesFullAttributeSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Record{ID: "A1", Brand: "Acme", StockStatus: "IN_STOCK"}))
	// Overwrite with a record where previously-set fields are back at
	// defaults; stale values must not survive the write.
	require.NoError(t, s.Put(ctx, model.Record{ID: "A1", DisplayName: "Widget"}))

	got, err := s.Get(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "", got.Brand)
	assert.Equal(t, "", got.StockStatus)
	assert.Equal(t, "Widget", got.DisplayName)
}

func TestPebbleStore_PutRefreshesLastUpdated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Record{ID: "A1", ListPrice: 9.99}))
	first, err := s.Get(ctx, "A1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, s.Put(ctx, model.Record{ID: "A1", ListPrice: 12.99}))
	second, err := s.Get(ctx, "A1")
	require.NoError(t, err)

	assert.True(t, second.LastUpdated.After(first.LastUpdated),
		"last updated should strictly increase on every write")
}

func TestPebbleStore_PutRejectsMissingID(t *testing.T) {
	s := newTestStore(t)

	err := s.Put(context.Background(), model.Record{DisplayName: "Widget"})

	assert.ErrorIs(t, err, model.ErrMissingID)
}

func TestPebbleStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Record{ID: "A1"}))

	deleted, err := s.Delete(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, deleted)

	rec, err := s.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	deleted, err = s.Delete(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, deleted, "deleting an absent record reports false")
}

func TestPebbleStore_All(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Record{ID: "A1", DisplayName: "Widget"}))
	require.NoError(t, s.Put(ctx, model.Record{ID: "B2", DisplayName: "Gadget"}))

	records, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	ids := []string{records[0].ID, records[1].ID}
	assert.ElementsMatch(t, []string{"A1", "B2"}, ids)
}

func TestPebbleStore_ReopenKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewPebbleStore(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, model.Record{ID: "A1", DisplayName: "Widget"}))
	require.NoError(t, s.Close())

	reopened, err := NewPebbleStore(dir, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Widget", got.DisplayName)
}
