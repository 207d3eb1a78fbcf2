package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"shelfwatch/internal/model"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
)

// pebbleStore implements RecordStore on a local Pebble database. One key per
// product ID, value = JSON-encoded StoredRecord. Pebble's per-key writes give
// the required per-record atomicity.
type pebbleStore struct {
	db     *pebble.DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewPebbleStore opens (creating if needed) the Pebble database at dir.
func NewPebbleStore(dir string, logger zerolog.Logger) (RecordStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store: %w", err)
	}
	return &pebbleStore{
		db:     db,
		logger: logger.With().Str("store", "pebble").Logger(),
		now:    time.Now,
	}, nil
}

func (s *pebbleStore) Get(_ context.Context, id string) (*model.StoredRecord, error) {
	val, closer, err := s.db.Get([]byte(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to read record")
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	defer closer.Close()

	var rec model.StoredRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to decode stored record")
		return nil, fmt.Errorf("failed to decode stored record: %w", err)
	}
	return &rec, nil
}

func (s *pebbleStore) Put(_ context.Context, rec model.Record) error {
	if rec.ID == "" {
		return model.ErrMissingID
	}

	stored := model.StoredRecord{Record: rec, LastUpdated: s.now()}
	val, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	// Sync writes: the process exits right after the batch, so the WAL must
	// be durable before we report success.
	if err := s.db.Set([]byte(rec.ID), val, pebble.Sync); err != nil {
		s.logger.Error().Err(err).Str("product_id", rec.ID).Msg("failed to write record")
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (s *pebbleStore) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if err := s.db.Delete([]byte(id), pebble.Sync); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete record")
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	return true, nil
}

func (s *pebbleStore) All(_ context.Context) ([]model.StoredRecord, error) {
	it, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store iterator: %w", err)
	}
	defer it.Close()

	var records []model.StoredRecord
	for it.First(); it.Valid(); it.Next() {
		var rec model.StoredRecord
		if err := json.Unmarshal(it.Value(), &rec); err != nil {
			s.logger.Error().Err(err).Str("key", string(it.Key())).Msg("failed to decode stored record")
			return nil, fmt.Errorf("failed to decode stored record: %w", err)
		}
		records = append(records, rec)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

func (s *pebbleStore) Close() error {
	return s.db.Close()
}
