package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shelfwatch/internal/config"
	"shelfwatch/internal/model"

	"github.com/rs/zerolog"
)

// Client fetches the catalog and stock feeds. Transient failures are
// retried with a fixed delay before the fetch is reported as failed.
type Client struct {
	httpClient *http.Client
	productURL string
	stockURL   string
	retries    int
	retryDelay time.Duration
	logger     zerolog.Logger
}

// NewClient creates a feed client. Pass nil for httpClient to use a default
// client with the configured timeout.
func NewClient(cfg config.FeedConfig, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		productURL: cfg.ProductURL,
		stockURL:   cfg.StockURL,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		logger:     logger.With().Str("component", "feed-client").Logger(),
	}
}

// FetchCatalog retrieves and validates the product feed. Items without a
// usable product ID are dropped with a warning and never reach the sync
// engine.
func (c *Client) FetchCatalog(ctx context.Context) ([]model.RawItem, error) {
	payload, err := c.fetchJSON(ctx, c.productURL)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	rawItems, ok := payload["items"].([]any)
	if !ok {
		c.logger.Error().Msg("no items array in catalog response")
		return nil, fmt.Errorf("catalog response has no items array")
	}

	items := make([]model.RawItem, 0, len(rawItems))
	for i, entry := range rawItems {
		item, ok := entry.(map[string]any)
		if !ok {
			c.logger.Warn().Int("index", i).Msg("skipping non-object catalog item")
			continue
		}
		if id, _ := item["id"].(string); id == "" {
			c.logger.Warn().Int("index", i).Msg("skipping catalog item without product id")
			continue
		}
		items = append(items, model.RawItem(item))
	}

	c.logger.Info().
		Int("received", len(rawItems)).
		Int("valid", len(items)).
		Msg("catalog fetched")
	return items, nil
}

// FetchStock retrieves inventory data for the given product IDs and returns
// the flattened stock attributes keyed by product ID. Entries that cannot
// be tied to a product ID are dropped with a warning.
func (c *Client) FetchStock(ctx context.Context, ids []string) (map[string]model.RawItem, error) {
	if c.stockURL == "" || len(ids) == 0 {
		return nil, nil
	}

	payload, err := c.fetchJSON(ctx, c.stockURL+strings.Join(ids, ","))
	if err != nil {
		return nil, fmt.Errorf("stock fetch failed: %w", err)
	}

	rawItems, ok := payload["items"].([]any)
	if !ok {
		c.logger.Error().Msg("no items array in stock response")
		return nil, fmt.Errorf("stock response has no items array")
	}

	stock := make(map[string]model.RawItem, len(rawItems))
	for i, entry := range rawItems {
		item, ok := entry.(map[string]any)
		if !ok {
			c.logger.Warn().Int("index", i).Msg("skipping non-object stock item")
			continue
		}
		id := stockItemID(item)
		if id == "" {
			c.logger.Warn().Int("index", i).Msg("skipping stock item without product id")
			continue
		}
		stock[id] = flattenStockItem(item)
	}

	c.logger.Info().Int("products", len(stock)).Msg("stock fetched")
	return stock, nil
}

// stockItemID extracts the product ID a stock entry refers to.
func stockItemID(item map[string]any) string {
	for _, key := range []string{"productId", "id", "catRefId"} {
		if id, _ := item[key].(string); id != "" {
			return id
		}
	}
	return ""
}

// flattenStockItem lifts the first productSkuInventoryDetails entry up to
// the top level, keeping top-level stock fields where the details omit
// them. The sync engine merges only recognized stock keys, so leftover
// bookkeeping fields are harmless.
func flattenStockItem(item map[string]any) model.RawItem {
	flat := make(model.RawItem, len(item))
	for k, v := range item {
		flat[k] = v
	}
	details, ok := item["productSkuInventoryDetails"].([]any)
	if !ok || len(details) == 0 {
		return flat
	}
	first, ok := details[0].(map[string]any)
	if !ok {
		return flat
	}
	for k, v := range first {
		flat[k] = v
	}
	return flat
}

// fetchJSON performs a GET with retries and decodes the JSON object body.
func (c *Client) fetchJSON(ctx context.Context, url string) (map[string]any, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		c.logger.Debug().Str("url", url).Int("attempt", attempt).Msg("fetching feed")

		payload, err := c.doFetch(ctx, url)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("feed fetch attempt failed")

		if attempt < c.retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}
	c.logger.Error().Err(lastErr).Str("url", url).Msg("max retries reached")
	return nil, lastErr
}

func (c *Client) doFetch(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("non-success status code %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload, nil
}
