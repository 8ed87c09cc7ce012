package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

var (
	ErrRequestFailed = errors.New("steam request failed")
	ErrNoDetails     = errors.New("no details for app")
)

type Config struct {
	CountryCode string
	StoreURL    string
	APIURL      string
	MaxResults  int
}

// Client talks to the Steam storefront: the appdetails and appreviews
// JSON endpoints plus the HTML search page.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.StoreURL == "" {
		cfg.StoreURL = "https://store.steampowered.com"
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://store.steampowered.com/api"
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 10
	}
	return &Client{
		cfg:    cfg,
		client: httpClient,
		logger: logger,
	}
}

// AppDetails is the storefront detail payload for one app. Optional
// sections are pointers so absence survives into the merge step.
type AppDetails struct {
	Name        string
	AppID       int
	About       string
	IsFree      bool
	Metacritic  *Metacritic
	Genres      []Genre
	ReleaseDate ReleaseDate
	Price       *PriceOverview
}

type Metacritic struct {
	Score int `json:"score"`
}

type Genre struct {
	Description string `json:"description"`
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// PriceOverview amounts are in minor currency units (centavos).
type PriceOverview struct {
	Initial         int `json:"initial"`
	Final           int `json:"final"`
	DiscountPercent int `json:"discount_percent"`
}

type appDetailsEntry struct {
	Success bool `json:"success"`
	Data    struct {
		Name        string         `json:"name"`
		AppID       int            `json:"steam_appid"`
		About       string         `json:"about_the_game"`
		IsFree      bool           `json:"is_free"`
		Metacritic  *Metacritic    `json:"metacritic"`
		Genres      []Genre        `json:"genres"`
		ReleaseDate ReleaseDate    `json:"release_date"`
		Price       *PriceOverview `json:"price_overview"`
	} `json:"data"`
}

type reviewsResponse struct {
	QuerySummary struct {
		ReviewScoreDesc string `json:"review_score_desc"`
	} `json:"query_summary"`
}

// Details fetches the appdetails payload for one app id. The HTML in
// the about text is stripped here, at the deserialization boundary.
func (c *Client) Details(ctx context.Context, appID string) (*AppDetails, error) {
	params := url.Values{}
	params.Set("appids", appID)
	params.Set("cc", c.cfg.CountryCode)

	body, err := c.get(ctx, c.cfg.APIURL+"/appdetails/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp map[string]appDetailsEntry
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}

	entry, ok := resp[appID]
	if !ok || !entry.Success {
		return nil, fmt.Errorf("%w: %s", ErrNoDetails, appID)
	}

	d := entry.Data
	return &AppDetails{
		Name:        d.Name,
		AppID:       d.AppID,
		About:       stripTags(d.About),
		IsFree:      d.IsFree,
		Metacritic:  d.Metacritic,
		Genres:      d.Genres,
		ReleaseDate: d.ReleaseDate,
		Price:       d.Price,
	}, nil
}

// Reviews returns the textual review descriptor ("Very Positive", ...)
// for one app id.
func (c *Client) Reviews(ctx context.Context, appID string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/appreviews/%s?json=1&language=all", c.cfg.StoreURL, appID))
	if err != nil {
		return "", err
	}

	var resp reviewsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}
	return resp.QuerySummary.ReviewScoreDesc, nil
}

// PageURL is the canonical store page for an app id.
func (c *Client) PageURL(appID string) string {
	return fmt.Sprintf("%s/app/%s/", c.cfg.StoreURL, appID)
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("steam request failed",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	return body, nil
}
