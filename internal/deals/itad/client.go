package itad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"dealbot/internal/deals"
)

const siteURL = "https://isthereanydeal.com"

type Config struct {
	APIKey  string
	BaseURL string
	Region  string
	Country string
	Shops   []string
	// Since is the absolute cutoff for the recent-low window, computed
	// once at startup.
	Since time.Time
}

// Client talks to the IsThereAnyDeal v01/v02 API. The *http.Client is
// owned by the caller and shared across all outbound integrations.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.isthereanydeal.com"
	}
	return &Client{
		cfg:    cfg,
		client: httpClient,
		logger: logger,
	}
}

type searchResponse struct {
	Error string `json:"error"`
	Data  struct {
		Results []searchResult `json:"results"`
	} `json:"data"`
}

type searchResult struct {
	Plain string `json:"plain"`
	Title string `json:"title"`
}

type shop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pricesResponse struct {
	Data map[string]struct {
		List []priceEntry `json:"list"`
	} `json:"data"`
}

type priceEntry struct {
	PriceNew float64  `json:"price_new"`
	PriceOld float64  `json:"price_old"`
	PriceCut int      `json:"price_cut"`
	URL      string   `json:"url"`
	Shop     shop     `json:"shop"`
	DRM      []string `json:"drm"`
}

type overviewResponse struct {
	Data map[string]struct {
		Lowest *overviewLow `json:"lowest"`
	} `json:"data"`
}

type overviewLow struct {
	Price             float64 `json:"price"`
	Store             string  `json:"store"`
	Recorded          int64   `json:"recorded"`
	RecordedFormatted string  `json:"recorded_formatted"`
}

type lowestResponse struct {
	Data map[string]lowestEntry `json:"data"`
}

type lowestEntry struct {
	Shop  shop     `json:"shop"`
	Price *float64 `json:"price"`
	Cut   int      `json:"cut"`
	Added int64    `json:"added"`
}

func (c *Client) Search(ctx context.Context, query string) ([]deals.SearchResult, error) {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("q", query)

	var resp searchResponse
	if err := c.get(ctx, "/v02/search/search/", params, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", deals.ErrBadQuery, resp.Error)
	}

	results := make([]deals.SearchResult, 0, len(resp.Data.Results))
	for _, r := range resp.Data.Results {
		results = append(results, deals.SearchResult{Plain: r.Plain, Title: r.Title})
	}
	return results, nil
}

func (c *Client) Prices(ctx context.Context, plain string) ([]deals.Offer, error) {
	params := c.baseParams(plain)
	params.Set("shops", strings.Join(c.cfg.Shops, ","))

	var resp pricesResponse
	if err := c.get(ctx, "/v01/game/prices/", params, &resp); err != nil {
		return nil, err
	}

	entry, ok := resp.Data[plain]
	if !ok {
		return nil, nil
	}

	offers := make([]deals.Offer, 0, len(entry.List))
	for _, p := range entry.List {
		offers = append(offers, deals.Offer{
			Shop:     p.Shop.Name,
			PriceNew: p.PriceNew,
			PriceOld: p.PriceOld,
			Cut:      p.PriceCut,
			DRM:      p.DRM,
			URL:      p.URL,
		})
	}
	return offers, nil
}

func (c *Client) Overview(ctx context.Context, plain string) (*deals.Low, error) {
	var resp overviewResponse
	if err := c.get(ctx, "/v01/game/overview/", c.baseParams(plain), &resp); err != nil {
		return nil, err
	}

	entry, ok := resp.Data[plain]
	if !ok || entry.Lowest == nil {
		return nil, nil
	}

	return &deals.Low{
		Price:         entry.Lowest.Price,
		Shop:          entry.Lowest.Store,
		Recorded:      time.Unix(entry.Lowest.Recorded, 0),
		RecordedLabel: entry.Lowest.RecordedFormatted,
	}, nil
}

func (c *Client) RecentLow(ctx context.Context, plain string) (*deals.Low, error) {
	params := c.baseParams(plain)
	params.Set("since", strconv.FormatInt(c.cfg.Since.Unix(), 10))
	params.Set("new", "1")

	var resp lowestResponse
	if err := c.get(ctx, "/v01/game/lowest/", params, &resp); err != nil {
		return nil, err
	}

	entry, ok := resp.Data[plain]
	if !ok || entry.Price == nil {
		// no qualifying sale inside the window
		return nil, nil
	}

	return &deals.Low{
		Price:    *entry.Price,
		Shop:     entry.Shop.Name,
		Recorded: time.Unix(entry.Added, 0),
	}, nil
}

func (c *Client) GameURL(plain string) string {
	return fmt.Sprintf("%s/game/%s/info", siteURL, plain)
}

func (c *Client) baseParams(plain string) url.Values {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("region", c.cfg.Region)
	params.Set("country", c.cfg.Country)
	params.Set("plains", plain)
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", deals.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", deals.ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("itad request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: status %d", deals.ErrRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", deals.ErrRequestFailed, err)
	}
	return nil
}
