// Package delivery posts finished payloads to the downstream economy API.
package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Client struct {
	http   *resty.Client
	key    string
	logger *zap.Logger
}

func New(key string, timeout time.Duration, logger *zap.Logger) *Client {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c, key: key, logger: logger}
}

// Send posts {"items": items} to url, authenticating with the API key as a
// query parameter. An empty url disables delivery for that payload kind.
func (c *Client) Send(ctx context.Context, url string, items any) error {
	if url == "" {
		if c.logger != nil {
			c.logger.Debug("delivery skipped, no url configured")
		}
		return nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.key).
		SetBody(map[string]any{"items": items}).
		Post(url)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("deliver to %s: status %s", url, resp.Status())
	}
	if c.logger != nil {
		c.logger.Info("payload delivered", zap.String("url", url), zap.String("status", resp.Status()))
	}
	return nil
}
