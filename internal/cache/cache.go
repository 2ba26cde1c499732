package cache

import (
	"context"
	"errors"
)

// ErrNotFound reports a miss: the pricelist is absent, or expired under the
// active invalidation policy.
var ErrNotFound = errors.New("cache: pricelist not found")

// Store keys rendered pricelist PDFs by seller username. Implementations run
// their invalidation policy inside Get and Put, so callers never see stale
// documents. At most one entry exists per username; Put replaces wholesale.
type Store interface {
	Get(ctx context.Context, username string) ([]byte, error)
	Put(ctx context.Context, username string, pdf []byte) error

	// Owners lists every username with a live entry, for the form's
	// autocomplete list.
	Owners(ctx context.Context) ([]string, error)

	Close() error
}
