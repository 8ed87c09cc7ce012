// Package mock provides a configurable in-memory deals.Client for tests.
package mock

import (
	"context"
	"sync"

	"dealbot/internal/deals"
)

type Client struct {
	Results []deals.SearchResult
	Offers  []deals.Offer
	AllTime *deals.Low
	Recent  *deals.Low

	SearchErr   error
	PricesErr   error
	OverviewErr error
	RecentErr   error

	SearchCalls int
	PricesCalls int
	LastQuery   string
	LastPlain   string

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithResults(results ...deals.SearchResult) *Client {
	c.Results = results
	return c
}

func (c *Client) WithOffers(offers ...deals.Offer) *Client {
	c.Offers = offers
	return c
}

func (c *Client) WithAllTimeLow(low *deals.Low) *Client {
	c.AllTime = low
	return c
}

func (c *Client) WithRecentLow(low *deals.Low) *Client {
	c.Recent = low
	return c
}

func (c *Client) Search(ctx context.Context, query string) ([]deals.SearchResult, error) {
	c.mu.Lock()
	c.SearchCalls++
	c.LastQuery = query
	c.mu.Unlock()

	if c.SearchErr != nil {
		return nil, c.SearchErr
	}
	return c.Results, nil
}

func (c *Client) Prices(ctx context.Context, plain string) ([]deals.Offer, error) {
	c.mu.Lock()
	c.PricesCalls++
	c.LastPlain = plain
	c.mu.Unlock()

	if c.PricesErr != nil {
		return nil, c.PricesErr
	}
	return c.Offers, nil
}

func (c *Client) Overview(ctx context.Context, plain string) (*deals.Low, error) {
	if c.OverviewErr != nil {
		return nil, c.OverviewErr
	}
	return c.AllTime, nil
}

func (c *Client) RecentLow(ctx context.Context, plain string) (*deals.Low, error) {
	if c.RecentErr != nil {
		return nil, c.RecentErr
	}
	return c.Recent, nil
}

func (c *Client) GameURL(plain string) string {
	return "https://isthereanydeal.com/game/" + plain + "/info"
}
