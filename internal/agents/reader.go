package agents

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

// ArticleReader fetches a page and extracts the main article text.
type ArticleReader struct {
	userAgent string
	timeout   time.Duration
	maxChars  int
	processor *ContentProcessor
	logger    *logrus.Logger
}

func NewArticleReader(userAgent string, timeout time.Duration, maxChars int, logger *logrus.Logger) *ArticleReader {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &ArticleReader{
		userAgent: userAgent,
		timeout:   timeout,
		maxChars:  maxChars,
		processor: NewContentProcessor(),
		logger:    logger,
	}
}

func (r *ArticleReader) Read(ctx context.Context, link string) (Article, error) {
	if strings.TrimSpace(link) == "" {
		return Article{}, fmt.Errorf("invalid url")
	}
	if err := ctx.Err(); err != nil {
		return Article{}, err
	}

	c := newCollector(ctx, r.userAgent, r.timeout)

	var (
		article Article
		readErr error
	)

	c.OnResponse(func(resp *colly.Response) {
		contentType := resp.Headers.Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "html") {
			readErr = fmt.Errorf("unsupported content type %q", contentType)
			return
		}

		parsed, err := readability.FromReader(bytes.NewReader(resp.Body), resp.Request.URL)
		if err != nil {
			readErr = fmt.Errorf("failed to extract article: %w", err)
			return
		}

		text := r.processor.CleanContent(parsed.TextContent)
		article = Article{
			URL:      link,
			Title:    strings.TrimSpace(parsed.Title),
			Byline:   strings.TrimSpace(parsed.Byline),
			SiteName: strings.TrimSpace(parsed.SiteName),
			Excerpt:  strings.TrimSpace(parsed.Excerpt),
			Text:     r.processor.Excerpt(text, r.maxChars),
		}
	})

	c.OnError(func(_ *colly.Response, err error) {
		readErr = err
	})

	if err := c.Visit(link); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Article{}, ctxErr
		}
		return Article{}, fmt.Errorf("failed to visit page: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Article{}, err
	}
	if readErr != nil {
		return Article{}, readErr
	}
	if article.Text == "" {
		return Article{}, fmt.Errorf("no content extracted from page")
	}

	r.logger.WithFields(logrus.Fields{
		"url":            link,
		"content_length": len(article.Text),
	}).Debug("Article extracted")

	return article, nil
}
