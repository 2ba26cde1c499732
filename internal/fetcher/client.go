package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/tpcpricelists/pricelist/internal/domain"
)

// Client fetches seller item pages from TPC over plain HTTP.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	urlTemplate string
}

// NewClient builds the live fetcher. urlTemplate carries one %s for the
// username. every is the minimum spacing between upstream requests; TPC has
// no published limit so we stay polite.
func NewClient(urlTemplate string, every time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(every), 1),
		urlTemplate: urlTemplate,
	}
}

func (c *Client) FetchItems(ctx context.Context, username string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	target := fmt.Sprintf(c.urlTemplate, url.QueryEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
	return resp.Body, nil
}
