package universalis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"market-quick-price/internal/config"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 256

// Client is a paced HTTP client for the aggregated market API.
// Identical concurrent requests (same target and item) share one round trip.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
	cfg     config.UniversalisConfig
}

// NewClient creates a client. Zero-valued settings fall back to config.Default().
func NewClient(cfg config.UniversalisConfig) *Client {
	def := config.Default().Universalis
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Listings <= 0 {
		cfg.Listings = def.Listings
	}
	if cfg.Entries <= 0 {
		cfg.Entries = def.Entries
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cfg:     cfg,
	}
}

// MarketURL builds the market endpoint URL for a target (world, data center or region) and item.
func (c *Client) MarketURL(target string, itemID uint32) string {
	return fmt.Sprintf("%s/api/v2/%s/%d?listings=%d&entries=%d",
		c.cfg.BaseURL, url.PathEscape(target), itemID, c.cfg.Listings, c.cfg.Entries)
}

// FetchMarket returns current listings and recent sales for itemID on target.
// A response without listings is not an error; callers check len(Listings).
func (c *Client) FetchMarket(ctx context.Context, target string, itemID uint32) (*MarketData, error) {
	key := target + ":" + strconv.FormatUint(uint64(itemID), 10)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, c.MarketURL(target, itemID))
	})
	if err != nil {
		return nil, err
	}
	return v.(*MarketData), nil
}

func (c *Client) fetch(ctx context.Context, u string) (*MarketData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("universalis %d: %s", resp.StatusCode, string(body))
	}

	data, err := Decode(body)
	if err != nil {
		return nil, err
	}
	data.Latency = time.Since(start)
	return data, nil
}
