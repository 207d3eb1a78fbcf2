package service

import (
	"context"
	"fmt"

	"shelfwatch/internal/model"
	"shelfwatch/internal/notify"
	"shelfwatch/internal/store"

	"github.com/rs/zerolog"
)

// syncService implements SyncService.
type syncService struct {
	store    store.RecordStore
	notifier notify.Notifier
	baseURL  string
	logger   zerolog.Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(recordStore store.RecordStore, notifier notify.Notifier, baseURL string, logger zerolog.Logger) SyncService {
	return &syncService{
		store:    recordStore,
		notifier: notifier,
		baseURL:  baseURL,
		logger:   logger.With().Str("service", "sync").Logger(),
	}
}

// Upsert runs normalize -> classify -> persist for one raw feed item and
// emits the new-product notification after a successful insert. All store
// errors stay inside the returned Result so the rest of the batch keeps
// going.
func (s *syncService) Upsert(ctx context.Context, raw model.RawItem) Result {
	rec := Normalize(raw, s.baseURL)
	if rec.ID == "" {
		// Feed validation filters these out; guard anyway so a bad item
		// cannot write an unkeyed row.
		return Result{Outcome: Failed, Err: model.ErrMissingID}
	}

	existing, err := s.store.Get(ctx, rec.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", rec.ID).Msg("failed to read stored record")
		return Result{ID: rec.ID, Outcome: Failed, Err: fmt.Errorf("read failed: %w", err)}
	}

	var stored *model.Record
	if existing != nil {
		stored = &existing.Record
	}

	switch Classify(&rec, stored) {
	case ClassNew:
		if err := s.store.Put(ctx, rec); err != nil {
			s.logger.Error().Err(err).Str("product_id", rec.ID).Msg("failed to insert record")
			return Result{ID: rec.ID, Outcome: Failed, Err: fmt.Errorf("insert failed: %w", err)}
		}
		s.logger.Info().
			Str("product_id", rec.ID).
			Str("display_name", rec.DisplayName).
			Msg("new product stored")

		// Post-commit hook: delivery failure never rolls back the insert.
		msg := notify.NewProductMessage(rec.DisplayName, rec.ListPrice, rec.ProductURL)
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.logger.Warn().Err(err).Str("product_id", rec.ID).Msg("new product notification failed")
		}
		return Result{ID: rec.ID, Outcome: Inserted}

	case ClassChanged:
		for _, change := range Diff(&rec, stored) {
			s.logger.Info().
				Str("product_id", rec.ID).
				Str("field", change.Name).
				Str("stored", change.Stored).
				Str("incoming", change.Incoming).
				Msg("field changed")
		}
		if err := s.store.Put(ctx, rec); err != nil {
			s.logger.Error().Err(err).Str("product_id", rec.ID).Msg("failed to update record")
			return Result{ID: rec.ID, Outcome: Failed, Err: fmt.Errorf("update failed: %w", err)}
		}
		s.logger.Info().
			Str("product_id", rec.ID).
			Str("display_name", rec.DisplayName).
			Msg("changed product updated")
		return Result{ID: rec.ID, Outcome: Updated}

	default:
		s.logger.Debug().Str("product_id", rec.ID).Msg("product unchanged")
		return Result{ID: rec.ID, Outcome: Skipped}
	}
}

// RunBatch merges stock entries into their catalog items and upserts every
// record, accumulating the run tally. A record with no stock entry is
// processed with catalog data alone.
func (s *syncService) RunBatch(ctx context.Context, catalog []model.RawItem, stock map[string]model.RawItem) Tally {
	var tally Tally
	for _, item := range catalog {
		working := mergeStock(item, stock)
		res := s.Upsert(ctx, working)
		switch res.Outcome {
		case Inserted:
			tally.Inserted++
		case Updated:
			tally.Updated++
		case Skipped:
			tally.Skipped++
		case Failed:
			tally.Failed++
			s.logger.Error().Err(res.Err).Str("product_id", res.ID).Msg("record failed")
		}
	}

	s.logger.Info().
		Int("total", tally.Total()).
		Int("inserted", tally.Inserted).
		Int("updated", tally.Updated).
		Int("skipped", tally.Skipped).
		Int("failed", tally.Failed).
		Msg("batch complete")
	return tally
}

// mergeStock copies the stock-owned schema keys from the matching stock
// entry into a copy of the catalog item. The input maps are not mutated.
func mergeStock(item model.RawItem, stock map[string]model.RawItem) model.RawItem {
	working := make(model.RawItem, len(item)+len(model.StockFieldNames))
	for k, v := range item {
		working[k] = v
	}

	id := asString(item["id"])
	entry, ok := stock[id]
	if !ok {
		return working
	}
	for _, key := range model.StockFieldNames {
		if v, present := entry[key]; present {
			working[key] = v
		}
	}
	return working
}
