// Package hypixel is the read-only client for the SkyBlock economy feeds.
package hypixel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.hypixel.net"

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration, retries int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// ActiveAuctions fetches one page of currently listed auctions.
func (c *Client) ActiveAuctions(ctx context.Context, page int) (*AuctionsPage, error) {
	var out AuctionsPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&out).
		Get("/v2/skyblock/auctions")
	if err != nil {
		return nil, fmt.Errorf("fetch auctions page %d: %w", page, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch auctions page %d: status %s", page, resp.Status())
	}
	return &out, nil
}

// EndedAuctions fetches the recently sold auctions.
func (c *Client) EndedAuctions(ctx context.Context) (*AuctionsPage, error) {
	var out AuctionsPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v2/skyblock/auctions_ended")
	if err != nil {
		return nil, fmt.Errorf("fetch ended auctions: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch ended auctions: status %s", resp.Status())
	}
	return &out, nil
}

// Bazaar fetches the instant-trade product summary.
func (c *Client) Bazaar(ctx context.Context) (*BazaarReply, error) {
	var out BazaarReply
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v2/skyblock/bazaar")
	if err != nil {
		return nil, fmt.Errorf("fetch bazaar: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch bazaar: status %s", resp.Status())
	}
	return &out, nil
}
