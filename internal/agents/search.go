package agents

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

const DefaultUserAgent = "news_app_v1.0 (+https://github.com/Ayash-Bera/geonews)"

// contextTransport binds every request of a collector to one context.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// newCollector returns a single-use collector whose requests stop when ctx is done.
func newCollector(ctx context.Context, userAgent string, timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(userAgent))
	c.SetRequestTimeout(timeout)
	c.WithTransport(contextTransport{ctx: ctx, base: http.DefaultTransport})
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	return c
}

// WebSearcher scrapes the DuckDuckGo HTML endpoint.
type WebSearcher struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewWebSearcher(baseURL, userAgent string, timeout time.Duration, logger *logrus.Logger) *WebSearcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &WebSearcher{
		baseURL:   baseURL,
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *WebSearcher) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCollector(ctx, s.userAgent, s.timeout)

	var (
		results   []SearchResult
		searchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			searchErr = fmt.Errorf("failed to parse search results: %w", err)
			return
		}
		results = parseSearchResults(doc, limit)
	})

	c.OnError(func(r *colly.Response, err error) {
		searchErr = err
	})

	target := s.baseURL + "?" + url.Values{"q": {query}}.Encode()
	if err := c.Visit(target); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if searchErr != nil {
		return nil, fmt.Errorf("search request failed: %w", searchErr)
	}

	s.logger.WithFields(logrus.Fields{
		"query":   query,
		"results": len(results),
	}).Debug("Web search completed")

	return results, nil
}

// parseSearchResults reads organic results, skipping ads and duplicates.
func parseSearchResults(doc *goquery.Document, limit int) []SearchResult {
	var results []SearchResult
	seen := make(map[string]bool)

	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.HasClass("result--ad") {
			return true
		}
		anchor := sel.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		link := resolveResultLink(href)
		if link == "" || seen[link] {
			return true
		}
		seen[link] = true

		results = append(results, SearchResult{
			Title:   strings.TrimSpace(anchor.Text()),
			URL:     link,
			Snippet: strings.Join(strings.Fields(sel.Find(".result__snippet").Text()), " "),
		})
		return limit <= 0 || len(results) < limit
	})

	return results
}

// resolveResultLink unwraps the redirect DuckDuckGo puts around result links.
func resolveResultLink(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		if u, err = url.Parse(target); err != nil {
			return ""
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") {
		return ""
	}
	return u.String()
}
