// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"playgrid/internal/models"
)

const fetchTimeout = 30 * time.Second

// Client fetches the raw feed payloads over HTTP.
type Client struct {
	http            *http.Client
	monetizeURL     string
	distributionURL string
}

// NewClient builds a feed client for the two configured endpoints.
func NewClient(monetizeURL, distributionURL string) *Client {
	return &Client{
		http:            &http.Client{Timeout: fetchTimeout},
		monetizeURL:     monetizeURL,
		distributionURL: distributionURL,
	}
}

// SourceURL returns the endpoint behind a feed source, used as the
// provider identity for imported games.
func (c *Client) SourceURL(source Source) string {
	if source == SourceDistribution {
		return c.distributionURL
	}
	return c.monetizeURL
}

// FetchMonetize downloads and decodes the monetize feed.
func (c *Client) FetchMonetize(ctx context.Context) ([]MonetizeGame, error) {
	var records []MonetizeGame
	if err := c.fetch(ctx, c.monetizeURL, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchDistribution downloads and decodes the distribution feed.
func (c *Client) FetchDistribution(ctx context.Context) ([]DistributionGame, error) {
	var records []DistributionGame
	if err := c.fetch(ctx, c.distributionURL, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Fetch downloads source and translates every record into a game draft.
func (c *Client) Fetch(ctx context.Context, source Source) ([]models.Game, error) {
	switch source {
	case SourceMonetize:
		records, err := c.FetchMonetize(ctx)
		if err != nil {
			return nil, err
		}
		drafts := make([]models.Game, 0, len(records))
		for _, r := range records {
			drafts = append(drafts, TranslateMonetize(r))
		}
		return drafts, nil
	case SourceDistribution:
		records, err := c.FetchDistribution(ctx)
		if err != nil {
			return nil, err
		}
		drafts := make([]models.Game, 0, len(records))
		for _, r := range records {
			drafts = append(drafts, TranslateDistribution(r))
		}
		return drafts, nil
	default:
		return nil, fmt.Errorf("unknown feed source %q", source)
	}
}

func (c *Client) fetch(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode feed: %w", err)
	}
	return nil
}
