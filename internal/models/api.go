package models

import (
	"fmt"
	"strings"
)

const (
	DefaultRadius     = 10.0
	DefaultMaxResults = 5
)

// Response status values.
const (
	StatusSuccess  = "success"
	StatusDegraded = "degraded"
)

// NewsRequest is the body of POST /news and POST /news/structured.
// Pointers let binding tell a missing coordinate apart from 0.
type NewsRequest struct {
	Latitude   *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude  *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Radius     *float64 `json:"radius" binding:"omitempty,min=1,max=1000"`
	MaxResults *int     `json:"max_results" binding:"omitempty,min=1,max=20"`
	Categories []string `json:"categories" binding:"omitempty,max=10,dive,max=64"`
}

// Params returns the request with defaults applied. Call only after binding succeeded.
func (r NewsRequest) Params() NewsParams {
	p := NewsParams{
		Radius:     DefaultRadius,
		MaxResults: DefaultMaxResults,
	}
	if r.Latitude != nil {
		p.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		p.Longitude = *r.Longitude
	}
	if r.Radius != nil {
		p.Radius = *r.Radius
	}
	if r.MaxResults != nil {
		p.MaxResults = *r.MaxResults
	}
	for _, c := range r.Categories {
		if c = strings.TrimSpace(c); c != "" {
			p.Categories = append(p.Categories, c)
		}
	}
	return p
}

// NewsParams is a validated request with defaults filled in.
type NewsParams struct {
	Latitude   float64
	Longitude  float64
	Radius     float64
	MaxResults int
	Categories []string
}

// LocationInfo is the resolved place for one request.
type LocationInfo struct {
	Name      string
	Latitude  float64
	Longitude float64
	Radius    float64
	Resolved  bool
}

func (l LocationInfo) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude, Radius: l.Radius}
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

type NewsResponse struct {
	LocationName string      `json:"location_name"`
	Coordinates  Coordinates `json:"coordinates"`
	Article      string      `json:"article"`
	GeneratedAt  string      `json:"generated_at"`
	Status       string      `json:"status"`
}

type NewsArticle struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	Category       string  `json:"category"`
	Source         string  `json:"source"`
	URL            string  `json:"url"`
	PublishedDate  string  `json:"published_date"`
	RelevanceScore float64 `json:"relevance_score"`
}

type StructuredNewsResponse struct {
	LocationName  string         `json:"location_name"`
	Coordinates   Coordinates    `json:"coordinates"`
	NewsArticles  []NewsArticle  `json:"news_articles"`
	Categories    map[string]int `json:"categories"`
	TotalArticles int            `json:"total_articles"`
	GeneratedAt   string         `json:"generated_at"`
	Status        string         `json:"status"`
	PromptVersion string         `json:"prompt_version"`
}

type HealthResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Timestamp   string            `json:"timestamp"`
	Components  map[string]string `json:"components"`
	Environment HealthEnvironment `json:"environment"`
}

type HealthEnvironment struct {
	OpenAIConfigured bool   `json:"openai_configured"`
	ArchiveDriver    string `json:"archive_driver"`
	PromptVersion    string `json:"prompt_version"`
}

// ReportRequest is what the agent pipeline is asked to produce.
type ReportRequest struct {
	Location   LocationInfo
	Categories []string
	MaxResults int
	Mode       string
}

// ValidationError wraps a request that failed binding or validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
