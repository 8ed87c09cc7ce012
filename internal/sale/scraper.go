// Package sale scrapes the upcoming-sale countdown page for a small
// fixed set of labeled fields.
package sale

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"dealbot/internal/domain"
)

var (
	ErrRequestFailed = errors.New("sale request failed")
	// ErrIncomplete means the page layout changed and a required field
	// was not found.
	ErrIncomplete = errors.New("sale page missing fields")
)

type Scraper struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func New(url string, httpClient *http.Client, logger *zap.Logger) *Scraper {
	return &Scraper{
		url:    url,
		client: httpClient,
		logger: logger,
	}
}

func (s *Scraper) Current(ctx context.Context) (*domain.SaleEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %v", ErrRequestFailed, err)
	}

	event := &domain.SaleEvent{
		Name:      textOf(find(doc, byTagClass("h2", "h5 mb-3 text-white"))),
		StartDate: textOf(find(doc, byAttr("span", "itemprop", "startDate"))),
		EndDate:   textOf(find(doc, byAttr("span", "itemprop", "endDate"))),
		Countdown: textOf(find(doc, byAttr("span", "id", "countdown"))),
		Status:    textOf(find(doc, byTagClass("span", "status mb-0 mt-2 float-lg-right"))),
	}

	if event.Name == "" || event.StartDate == "" || event.EndDate == "" ||
		event.Countdown == "" || event.Status == "" {
		s.logger.Warn("sale page scrape incomplete", zap.String("url", s.url))
		return nil, ErrIncomplete
	}

	return event, nil
}

type predicate func(*html.Node) bool

func byTagClass(tag, class string) predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && attrVal(n, "class") == class
	}
}

func byAttr(tag, key, val string) predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && attrVal(n, key) == val
	}
}

func find(n *html.Node, match predicate) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := find(child, match); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
