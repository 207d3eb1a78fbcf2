package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"shelfwatch/internal/config"
	"shelfwatch/internal/feed"
	"shelfwatch/internal/notify"
	"shelfwatch/internal/service"
	"shelfwatch/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	deleteID := flag.String("delete", "", "delete the record with this product ID and exit")
	dump := flag.Bool("dump", false, "print all stored records and exit")
	flag.Parse()

	if err := run(*deleteID, *dump); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(deleteID string, dump bool) error {
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger).
		With().Str("run_id", uuid.NewString()).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recordStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer recordStore.Close()

	// Administrative operations, never part of the batch cycle.
	if deleteID != "" {
		return runDelete(ctx, recordStore, deleteID, logger)
	}
	if dump {
		return runDump(ctx, recordStore)
	}

	if cfg.Feed.ProductURL == "" {
		return fmt.Errorf("PRODUCT_URL is required for a batch run")
	}

	logger.Info().Msg("starting catalog sync run")

	httpClient := feed.NewHTTPClient(ctx, cfg.Proxy, cfg.Feed.Timeout, logger)
	client := feed.NewClient(cfg.Feed, httpClient, logger)

	var notifier notify.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		notifier = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	} else {
		logger.Warn().Msg("telegram credentials missing, notifications will only be logged")
		notifier = notify.NewLogNotifier(logger)
	}

	syncService := service.NewSyncService(recordStore, notifier, cfg.Feed.BaseURL, logger)

	// The catalog feed is the run's reason to exist: no catalog, no run.
	catalog, err := client.FetchCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve catalog: %w", err)
	}
	if len(catalog) == 0 {
		logger.Warn().Msg("catalog feed returned no items")
	}

	ids := make([]string, 0, len(catalog))
	for _, item := range catalog {
		if id, _ := item["id"].(string); id != "" {
			ids = append(ids, id)
		}
	}

	// Stock failures degrade to a catalog-only run.
	stock, err := client.FetchStock(ctx, ids)
	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve stock data, continuing with catalog only")
		stock = nil
	}

	tally := syncService.RunBatch(ctx, catalog, stock)

	logger.Info().
		Int("inserted", tally.Inserted).
		Int("updated", tally.Updated).
		Int("skipped", tally.Skipped).
		Int("failed", tally.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("sync run complete")
	return nil
}

// openStore opens the configured record store backend.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.RecordStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pool, err := store.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(ctx, pool, logger)
	default:
		return store.NewPebbleStore(cfg.Store.Path, logger)
	}
}

func runDelete(ctx context.Context, recordStore store.RecordStore, id string, logger zerolog.Logger) error {
	deleted, err := recordStore.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if deleted {
		logger.Warn().Str("product_id", id).Msg("record deleted")
	} else {
		logger.Warn().Str("product_id", id).Msg("record not found")
	}
	return nil
}

func runDump(ctx context.Context, recordStore store.RecordStore) error {
	records, err := recordStore.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	for _, rec := range records {
		fmt.Printf("ID: %s\n", rec.ID)
		fmt.Printf("Brand: %s\n", rec.Brand)
		fmt.Printf("Display Name: %s\n", rec.DisplayName)
		fmt.Printf("List Price: %.2f\n", rec.ListPrice)
		fmt.Printf("Stock Status: %s\n", rec.StockStatus)
		fmt.Printf("In Stock Quantity: %d\n", rec.InStockQuantity)
		fmt.Printf("Orderable Quantity: %d\n", rec.OrderableQuantity)
		fmt.Printf("Image URL: %s\n", rec.PrimaryFullImageURL)
		fmt.Printf("Product URL: %s\n", rec.ProductURL)
		fmt.Printf("Last Updated: %s\n", rec.LastUpdated.Format(time.RFC3339))
		fmt.Println("--------------------------------------------------")
	}
	fmt.Printf("%d record(s)\n", len(records))
	return nil
}
