package deals

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRequestFailed covers transport failures and non-success HTTP
	// statuses on any aggregator call.
	ErrRequestFailed = errors.New("deals request failed")
	// ErrBadQuery means the provider payload itself rejected the query.
	ErrBadQuery = errors.New("provider rejected query")
)

// Client is the pricing-aggregator capability. An empty search result
// is a valid outcome, not an error. RecentLow and Overview return
// (nil, nil) when the provider has no qualifying record.
type Client interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Prices(ctx context.Context, plain string) ([]Offer, error)
	Overview(ctx context.Context, plain string) (*Low, error)
	RecentLow(ctx context.Context, plain string) (*Low, error)
	GameURL(plain string) string
}

// SearchResult is one candidate in the provider's relevance order.
type SearchResult struct {
	Plain string
	Title string
}

// Offer is one vendor listing as reported by the prices endpoint.
type Offer struct {
	Shop     string
	PriceNew float64
	PriceOld float64
	Cut      int
	DRM      []string
	URL      string
}

// Low is a lowest-price record, either all-time or window-scoped.
type Low struct {
	Price         float64
	Shop          string
	Recorded      time.Time
	RecordedLabel string
}
