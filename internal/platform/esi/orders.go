package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

// pagesHeader carries the 1-indexed total page count on order-book responses.
const pagesHeader = "x-pages"

// FetchOrders retrieves every page of one side of a region's order book and
// returns the concatenated orders in page order.
//
// Page 1 supplies both its records and the total page count via the x-pages
// header; pages 2..N follow sequentially. Each page request is retried with
// exponential backoff on any non-2xx status or decode failure. A page that
// exhausts its retries is dropped with an error log and the fetch continues,
// so one bad page degrades the result instead of aborting it. Page 1 is the
// exception: without it the page count is unknown and the whole fetch fails.
func (c *Client) FetchOrders(ctx context.Context, regionID int64, side domain.OrderSide) ([]domain.Order, error) {
	orders, pages, err := c.fetchOrderPage(ctx, regionID, side, 1)
	if err != nil {
		return nil, fmt.Errorf("esi: fetch %s orders region %d page 1: %w", side, regionID, err)
	}

	for page := 2; page <= pages; page++ {
		recs, _, err := c.fetchOrderPage(ctx, regionID, side, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("dropping order page after retries",
				slog.Int64("region_id", regionID),
				slog.String("side", string(side)),
				slog.Int("page", page),
				slog.String("error", err.Error()),
			)
			continue
		}
		orders = append(orders, recs...)
	}

	c.logger.Debug("order fetch complete",
		slog.Int64("region_id", regionID),
		slog.String("side", string(side)),
		slog.Int("pages", pages),
		slog.Int("orders", len(orders)),
	)

	return orders, nil
}

// fetchOrderPage fetches a single order-book page with retries and returns
// the decoded orders plus the total page count reported by the response.
func (c *Client) fetchOrderPage(ctx context.Context, regionID int64, side domain.OrderSide, page int) ([]domain.Order, int, error) {
	query := url.Values{}
	query.Set("datasource", c.datasource)
	query.Set("order_type", string(side))
	query.Set("page", strconv.Itoa(page))
	path := fmt.Sprintf("/markets/%d/orders/", regionID)

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			c.logger.Debug("retrying order page",
				slog.Int("attempt", attempt),
				slog.Int("page", page),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		orders, pages, err := c.doOrderRequest(ctx, path, query)
		if err == nil {
			return orders, pages, nil
		}
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		lastErr = err
	}

	return nil, 0, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doOrderRequest performs one GET against the order-book endpoint.
func (c *Client) doOrderRequest(ctx context.Context, path string, query url.Values) ([]domain.Order, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	var orders []domain.Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	pages := 1
	if v := resp.Header.Get(pagesHeader); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, 0, fmt.Errorf("parse %s header %q: %w", pagesHeader, v, err)
		}
		pages = n
	}

	return orders, pages, nil
}
