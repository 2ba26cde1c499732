package fetcher

import (
	"fmt"

	"github.com/tpcpricelists/pricelist/internal/config"
	"github.com/tpcpricelists/pricelist/internal/domain"
)

// New selects the fetch implementation from the configured mode.
func New(cfg config.Config) (domain.Fetcher, error) {
	switch cfg.FetchMode {
	case "live":
		return NewClient(cfg.UpstreamURL, cfg.FetchRate), nil
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown FETCH_MODE: %s (use 'live' or 'mock')", cfg.FetchMode)
	}
}
