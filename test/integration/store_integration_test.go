package integration

import (
	"context"
	"testing"
	"time"

	"shelfwatch/internal/model"
	"shelfwatch/internal/notify"
	"shelfwatch/internal/service"
	"shelfwatch/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()

	s, err := store.NewPostgresStore(ctx, db.Pool, zerolog.Nop())
	require.NoError(t, err)

	// Schema creation must be safe to repeat on every startup.
	_, err = store.NewPostgresStore(ctx, db.Pool, zerolog.Nop())
	require.NoError(t, err)

	t.Run("get absent", func(t *testing.T) {
		rec, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("put and get roundtrip", func(t *testing.T) {
		rec := model.Record{
			ID:                  "A1",
			Brand:               "Acme",
			Active:              true,
			DisplayName:         "Widget",
			ListPrice:           9.99,
			StockStatus:         "IN_STOCK",
			InStockQuantity:     12,
			PrimaryFullImageURL: "https://shop.example.com/images/a1.jpg",
			ProductURL:          "https://shop.example.com/product/A1",
		}
		require.NoError(t, s.Put(ctx, rec))

		got, err := s.Get(ctx, "A1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, rec, got.Record)
		assert.False(t, got.LastUpdated.IsZero())
	})

	t.Run("put refreshes last_updated", func(t *testing.T) {
		before, err := s.Get(ctx, "A1")
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)

		updated := before.Record
		updated.ListPrice = 12.99
		require.NoError(t, s.Put(ctx, updated))

		after, err := s.Get(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, 12.99, after.ListPrice)
		assert.True(t, after.LastUpdated.After(before.LastUpdated))
	})

	t.Run("all", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, model.Record{ID: "B2", DisplayName: "Gadget"}))

		records, err := s.All(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := s.Delete(ctx, "B2")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, "B2")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestSyncService_AgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()

	s, err := store.NewPostgresStore(ctx, db.Pool, zerolog.Nop())
	require.NoError(t, err)

	svc := service.NewSyncService(s, notify.NewLogNotifier(zerolog.Nop()),
		"https://shop.example.com", zerolog.Nop())

	catalog := []model.RawItem{
		{"id": "A1", "displayName": "Widget", "listPrice": "9.99"},
		{"id": "B2", "displayName": "Gadget", "listPrice": 19.99, "active": true},
	}
	stock := map[string]model.RawItem{
		"A1": {"stockStatus": "IN_STOCK", "inStockQuantity": 7.0},
	}

	first := svc.RunBatch(ctx, catalog, stock)
	assert.Equal(t, service.Tally{Inserted: 2}, first)

	// Identical re-run: nothing written, nothing changed.
	second := svc.RunBatch(ctx, catalog, stock)
	assert.Equal(t, service.Tally{Skipped: 2}, second)

	got, err := s.Get(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Widget", got.DisplayName)
	assert.Equal(t, 9.99, got.ListPrice)
	assert.Equal(t, "IN_STOCK", got.StockStatus)
	assert.Equal(t, 7, got.InStockQuantity)
	assert.Equal(t, "https://shop.example.com/product/A1", got.ProductURL)

	// Price drop shows up as one update, no insert.
	catalog[0]["listPrice"] = "8.49"
	third := svc.RunBatch(ctx, catalog, stock)
	assert.Equal(t, service.Tally{Updated: 1, Skipped: 1}, third)
}
