package crawl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"vacsift-engine/internal/config"

	"golang.org/x/time/rate"
)

// ErrExhausted is returned once every fetch attempt for one request has
// failed. Callers must not read it as "no more data": a transient outage
// looks exactly the same from here.
var ErrExhausted = errors.New("crawl: fetch attempts exhausted")

type Client struct {
	hc         *http.Client
	limiter    *rate.Limiter
	attempts   int
	retryDelay time.Duration
}

func NewClient(cfg config.Crawl) *Client {
	// The page delay doubles as the courtesy spacing for every request the
	// client issues, detail fetches included.
	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.PageDelaySeconds > 0 {
		lim = rate.NewLimiter(rate.Every(time.Duration(cfg.PageDelaySeconds)*time.Second), 1)
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		hc:         &http.Client{Timeout: 20 * time.Second},
		limiter:    lim,
		attempts:   attempts,
		retryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}
}

// GetJSON issues a GET with query parameters and decodes the JSON body.
// Non-200 responses and transport errors are retried up to the attempt cap
// with the longer retry delay between tries; after the cap it returns an
// empty payload and ErrExhausted.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values) (map[string]any, error) {
	var data map[string]any
	err := c.get(ctx, rawURL, params, &data)
	if data == nil {
		data = map[string]any{}
	}
	return data, err
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values, dst any) error {
	u := rawURL
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	for try := 1; try <= c.attempts; try++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", "vacsift/1.0 (+local)")

		res, err := c.hc.Do(req)
		if err != nil {
			log.Printf("[crawl] GET %s failed: %v (attempt %d/%d)", u, err, try, c.attempts)
		} else {
			if res.StatusCode == http.StatusOK {
				derr := json.NewDecoder(res.Body).Decode(dst)
				res.Body.Close()
				if derr != nil {
					return fmt.Errorf("decode %s: %w", u, derr)
				}
				return nil
			}
			res.Body.Close()
			log.Printf("[crawl] GET %s status %d (attempt %d/%d)", u, res.StatusCode, try, c.attempts)
		}

		if try < c.attempts {
			if err := sleepCtx(ctx, c.retryDelay); err != nil {
				return err
			}
		}
	}
	log.Printf("[crawl] GET %s gave up after %d attempts", u, c.attempts)
	return ErrExhausted
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
