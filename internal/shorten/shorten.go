// Package shorten wraps the is.gd simple API. Shortening is best
// effort: any failure falls back to the original URL so rendering never
// depends on the shortener being up.
package shorten

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"dealbot/internal/cache/memory"
)

type Config struct {
	BaseURL string
	TTL     time.Duration
	Timeout time.Duration
}

type Shortener struct {
	cfg    Config
	client *http.Client
	cache  *memory.Cache
	logger *zap.Logger
}

func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Shortener {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://is.gd"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Shortener{
		cfg:    cfg,
		client: httpClient,
		cache:  memory.New(),
		logger: logger,
	}
}

// Shorten returns a compact form of u, or u itself when the shortener
// fails. Safe for concurrent use.
func (s *Shortener) Shorten(u string) string {
	if u == "" {
		return u
	}

	if short, ok := s.cache.Get(u); ok {
		return short
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("format", "simple")
	params.Set("url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/create.php?"+params.Encode(), nil)
	if err != nil {
		return u
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("url shorten failed", zap.Error(err))
		return u
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		s.logger.Debug("url shorten failed",
			zap.Int("status", resp.StatusCode),
		)
		return u
	}

	short := strings.TrimSpace(string(body))
	if short == "" || strings.HasPrefix(short, "Error") {
		return u
	}

	s.cache.Set(u, short, s.cfg.TTL)
	return short
}

func (s *Shortener) Stop() {
	s.cache.Stop()
}
