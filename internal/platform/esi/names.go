package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// namesChunkSize is the maximum number of IDs universe/names accepts per call.
const namesChunkSize = 1000

// universeName is one entry of a universe/names response.
type universeName struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ResolveNames resolves type IDs to display names via the universe/names
// endpoint, chunking requests to the endpoint's ID limit. IDs the endpoint
// does not know stay absent from the result.
func (c *Client) ResolveNames(ctx context.Context, typeIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(typeIDs))

	for start := 0; start < len(typeIDs); start += namesChunkSize {
		end := start + namesChunkSize
		if end > len(typeIDs) {
			end = len(typeIDs)
		}
		if err := c.resolveChunk(ctx, typeIDs[start:end], names); err != nil {
			return nil, fmt.Errorf("esi: resolve names: %w", err)
		}
	}

	return names, nil
}

// resolveChunk posts one batch of IDs and merges the response into names.
func (c *Client) resolveChunk(ctx context.Context, ids []int64, names map[int64]string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal ids: %w", err)
	}

	query := url.Values{}
	query.Set("datasource", c.datasource)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/universe/names/?"+query.Encode(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	var entries []universeName
	if err := json.Unmarshal(body, &entries); err != nil {
		return fmt.Errorf("decode names: %w", err)
	}

	for _, e := range entries {
		names[e.ID] = e.Name
	}
	return nil
}
