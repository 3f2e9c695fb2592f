// Package normalizer turns raw agent output into structured article records.
//
// The parser is paired with the prompts package: the structured format the
// writer is told to produce is the format parsed here, and both move together
// under prompts.Version.
package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
)

type Options struct {
	// Categories requested by the caller. Blocks matching none are "General".
	Categories  []string
	GeneratedAt time.Time
}

type Result struct {
	Strategy   string
	Articles   []models.NewsArticle
	Categories map[string]int
	Total      int
	Status     string
}

// Normalize extracts text from raw output and parses it into articles.
// Output without text is an ExtractionError; text without articles is a
// degraded result, not an error.
func Normalize(raw any, opts Options) (*Result, error) {
	text, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	return Parse(text, opts), nil
}

// Parse segments text and parses each block in source order.
func Parse(text string, opts Options) *Result {
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	stamp := generated.UTC().Format(time.RFC3339)
	matchers := newCategoryMatchers(opts.Categories)

	strategy, blocks := Segment(text)
	res := &Result{
		Strategy:   strategy,
		Articles:   make([]models.NewsArticle, 0, len(blocks)),
		Categories: make(map[string]int),
	}

	for _, b := range blocks {
		article := parseBlock(b, len(res.Articles), matchers, stamp)
		res.Articles = append(res.Articles, article)
		res.Categories[article.Category]++
	}

	res.Total = len(res.Articles)
	res.Status = models.StatusSuccess
	if res.Total == 0 {
		res.Status = models.StatusDegraded
	}
	return res
}

func parseBlock(b Block, index int, matchers []categoryMatcher, stamp string) models.NewsArticle {
	title, rest, truncated := parseTitle(b.Lines[0])
	body := b.Lines[1:]

	summary := summaryText(rest, body)
	if summary == "" && truncated {
		summary = summaryText("", b.Lines[:1])
	}

	link := findURL(b.Lines)
	source, dateHint := findSource(b.Lines, link)
	text := strings.Join(b.Lines, "\n")

	published := findDate(dateHint, text)
	if published == "" {
		published = stamp
	}

	return models.NewsArticle{
		ID:             strconv.Itoa(index + 1),
		Title:          title,
		Summary:        summary,
		Category:       categorize(matchers, b.Hint, text),
		Source:         source,
		URL:            link,
		PublishedDate:  published,
		RelevanceScore: relevance(text, title, summary, index),
	}
}
