package store

import (
	"context"
	"fmt"

	"shelfwatch/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// recordColumns is the column list of the products table, in Record field
// order. The camel-case feed names are kept as quoted identifiers so the
// table reads the same as the upstream payloads.
const recordColumns = `
	id, brand, active, "displayName", "primaryFullImageURL",
	"b2c_highlyAllocatedProduct", "b2c_inventoryAvailability", "x_volume",
	"listPrice", "onlineOnly", "creationDate", "b2c_onlineAvailable",
	"b2c_onlineExclusive", "lastModifiedDate", "b2c_size", "b2c_proof",
	"b2c_futuresProduct", "b2c_comingSoon", "repositoryId", "b2c_type",
	"stockStatus", "inStockQuantity", "orderableQuantity",
	"preOrderableQuantity", "backOrderableQuantity", "availabilityDate",
	"locationId", "productUrl"`

// postgresStore implements RecordStore on PostgreSQL, one row per product ID.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore wraps a connection pool as a RecordStore and ensures the
// products table exists. Schema creation is idempotent and safe on every
// startup.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (RecordStore, error) {
	s := &postgresStore{
		pool:   pool,
		logger: logger.With().Str("store", "postgres").Logger(),
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *postgresStore) ensureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			brand TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT FALSE,
			"displayName" TEXT NOT NULL DEFAULT '',
			"primaryFullImageURL" TEXT NOT NULL DEFAULT '',
			"b2c_highlyAllocatedProduct" TEXT NOT NULL DEFAULT '',
			"b2c_inventoryAvailability" TEXT NOT NULL DEFAULT '',
			"x_volume" TEXT NOT NULL DEFAULT '',
			"listPrice" DOUBLE PRECISION NOT NULL DEFAULT 0,
			"onlineOnly" BOOLEAN NOT NULL DEFAULT FALSE,
			"creationDate" TEXT NOT NULL DEFAULT '',
			"b2c_onlineAvailable" TEXT NOT NULL DEFAULT '',
			"b2c_onlineExclusive" TEXT NOT NULL DEFAULT '',
			"lastModifiedDate" TEXT NOT NULL DEFAULT '',
			"b2c_size" TEXT NOT NULL DEFAULT '',
			"b2c_proof" TEXT NOT NULL DEFAULT '',
			"b2c_futuresProduct" TEXT NOT NULL DEFAULT '',
			"b2c_comingSoon" TEXT NOT NULL DEFAULT '',
			"repositoryId" TEXT NOT NULL DEFAULT '',
			"b2c_type" TEXT NOT NULL DEFAULT '',
			"stockStatus" TEXT NOT NULL DEFAULT '',
			"inStockQuantity" INTEGER NOT NULL DEFAULT 0,
			"orderableQuantity" INTEGER NOT NULL DEFAULT 0,
			"preOrderableQuantity" INTEGER NOT NULL DEFAULT 0,
			"backOrderableQuantity" INTEGER NOT NULL DEFAULT 0,
			"availabilityDate" TEXT NOT NULL DEFAULT '',
			"locationId" TEXT NOT NULL DEFAULT '',
			"productUrl" TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		s.logger.Error().Err(err).Msg("failed to ensure products table")
		return fmt.Errorf("failed to ensure products table: %w", err)
	}
	return nil
}

func (s *postgresStore) Get(ctx context.Context, id string) (*model.StoredRecord, error) {
	query := `SELECT ` + recordColumns + `, last_updated FROM products WHERE id = $1`

	var rec model.StoredRecord
	err := s.pool.QueryRow(ctx, query, id).Scan(scanTargets(&rec)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to query record")
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return &rec, nil
}

func (s *postgresStore) Put(ctx context.Context, rec model.Record) error {
	if rec.ID == "" {
		return model.ErrMissingID
	}

	query := `
		INSERT INTO products (` + recordColumns + `, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, now())
		ON CONFLICT (id) DO UPDATE SET
			brand = EXCLUDED.brand,
			active = EXCLUDED.active,
			"displayName" = EXCLUDED."displayName",
			"primaryFullImageURL" = EXCLUDED."primaryFullImageURL",
			"b2c_highlyAllocatedProduct" = EXCLUDED."b2c_highlyAllocatedProduct",
			"b2c_inventoryAvailability" = EXCLUDED."b2c_inventoryAvailability",
			"x_volume" = EXCLUDED."x_volume",
			"listPrice" = EXCLUDED."listPrice",
			"onlineOnly" = EXCLUDED."onlineOnly",
			"creationDate" = EXCLUDED."creationDate",
			"b2c_onlineAvailable" = EXCLUDED."b2c_onlineAvailable",
			"b2c_onlineExclusive" = EXCLUDED."b2c_onlineExclusive",
			"lastModifiedDate" = EXCLUDED."lastModifiedDate",
			"b2c_size" = EXCLUDED."b2c_size",
			"b2c_proof" = EXCLUDED."b2c_proof",
			"b2c_futuresProduct" = EXCLUDED."b2c_futuresProduct",
			"b2c_comingSoon" = EXCLUDED."b2c_comingSoon",
			"repositoryId" = EXCLUDED."repositoryId",
			"b2c_type" = EXCLUDED."b2c_type",
			"stockStatus" = EXCLUDED."stockStatus",
			"inStockQuantity" = EXCLUDED."inStockQuantity",
			"orderableQuantity" = EXCLUDED."orderableQuantity",
			"preOrderableQuantity" = EXCLUDED."preOrderableQuantity",
			"backOrderableQuantity" = EXCLUDED."backOrderableQuantity",
			"availabilityDate" = EXCLUDED."availabilityDate",
			"locationId" = EXCLUDED."locationId",
			"productUrl" = EXCLUDED."productUrl",
			last_updated = now()
	`

	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.Brand, rec.Active, rec.DisplayName, rec.PrimaryFullImageURL,
		rec.HighlyAllocated, rec.InventoryAvailability, rec.Volume,
		rec.ListPrice, rec.OnlineOnly, rec.CreationDate, rec.OnlineAvailable,
		rec.OnlineExclusive, rec.LastModifiedDate, rec.Size, rec.Proof,
		rec.FuturesProduct, rec.ComingSoon, rec.RepositoryID, rec.Type,
		rec.StockStatus, rec.InStockQuantity, rec.OrderableQuantity,
		rec.PreOrderableQuantity, rec.BackOrderableQuantity,
		rec.AvailabilityDate, rec.LocationID, rec.ProductURL,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", rec.ID).Msg("failed to upsert record")
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete record")
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *postgresStore) All(ctx context.Context) ([]model.StoredRecord, error) {
	query := `SELECT ` + recordColumns + `, last_updated FROM products ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query records")
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []model.StoredRecord
	for rows.Next() {
		var rec model.StoredRecord
		if err := rows.Scan(scanTargets(&rec)...); err != nil {
			s.logger.Error().Err(err).Msg("failed to scan record row")
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

// scanTargets returns scan destinations in recordColumns order, with
// last_updated appended.
func scanTargets(rec *model.StoredRecord) []any {
	return []any{
		&rec.ID, &rec.Brand, &rec.Active, &rec.DisplayName, &rec.PrimaryFullImageURL,
		&rec.HighlyAllocated, &rec.InventoryAvailability, &rec.Volume,
		&rec.ListPrice, &rec.OnlineOnly, &rec.CreationDate, &rec.OnlineAvailable,
		&rec.OnlineExclusive, &rec.LastModifiedDate, &rec.Size, &rec.Proof,
		&rec.FuturesProduct, &rec.ComingSoon, &rec.RepositoryID, &rec.Type,
		&rec.StockStatus, &rec.InStockQuantity, &rec.OrderableQuantity,
		&rec.PreOrderableQuantity, &rec.BackOrderableQuantity,
		&rec.AvailabilityDate, &rec.LocationID, &rec.ProductURL,
		&rec.LastUpdated,
	}
}
