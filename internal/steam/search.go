package steam

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Search runs the storefront HTML search and returns app ids in result
// order, capped at MaxResults. The search page has no JSON form, so the
// result rows are read structurally from the markup.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	params := url.Values{}
	params.Set("term", term)

	body, err := c.get(ctx, c.cfg.StoreURL+"/search/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse search page: %v", ErrRequestFailed, err)
	}

	var ids []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(ids) >= c.cfg.MaxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "search_result_row") {
			if id, ok := attr(n, "data-ds-appid"); ok && id != "" {
				ids = append(ids, id)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return ids, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	val, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(val) {
		if c == class {
			return true
		}
	}
	return false
}

// stripTags flattens an HTML fragment to its text content.
func stripTags(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(sb.String()), " ")
}
