package domain

import (
	"context"
	"errors"
	"io"
)

// Record is one listed item exactly as it appears on the seller's page.
// Items keep their page order and may repeat.
type Record struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Listing is the normalized result of scraping one seller page. It is
// produced whole or not at all; a partial listing is never returned.
type Listing struct {
	Location string
	Contact  string
	Items    []Record
}

// Document is a rendered pricelist.
type Document struct {
	Bytes []byte
	Pages int
}

// Event records one generation request for the audit log and stats page.
type Event struct {
	Username   string  `json:"username"`
	Items      int     `json:"items"`
	Pages      int     `json:"pages"`
	CacheHit   bool    `json:"cache_hit"`
	DurationMS int64   `json:"duration_ms"`
	CreatedUTC float64 `json:"created_utc"`
}

// Fetcher retrieves the raw item page for a seller. The caller owns the
// returned body and must close it.
type Fetcher interface {
	FetchItems(ctx context.Context, username string) (io.ReadCloser, error)
}

var (
	// ErrMalformedSource marks a page that fetched fine but is missing the
	// user metadata block or the two-column item table we scrape.
	ErrMalformedSource = errors.New("malformed source page")

	// ErrUpstream marks a transport-level failure talking to TPC.
	ErrUpstream = errors.New("upstream unreachable")
)
