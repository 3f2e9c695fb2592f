package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "Location-Based News API"
	ServiceVersion = "1.0.0"
)

type ServiceInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Endpoints   map[string]string `json:"endpoints"`
	Features    map[string]string `json:"features"`
	PoweredBy   []string          `json:"powered_by"`
}

// RootHandler describes the service.
type RootHandler struct {
	info ServiceInfo
}

func NewRootHandler(model string) *RootHandler {
	return &RootHandler{info: ServiceInfo{
		Name:        ServiceName,
		Description: "AI news aggregation for any coordinates: a searcher, a writer and an editor backed by " + model,
		Version:     ServiceVersion,
		Endpoints: map[string]string{
			"POST /news":                "Get news for specific coordinates (markdown format)",
			"POST /news/structured":     "Get structured news for UI integration (JSON format)",
			"GET /test-news":            "Test endpoint with a fixed location (markdown)",
			"GET /test-news/structured": "Test endpoint with a fixed location (JSON)",
			"GET /health":               "Health check",
		},
		Features: map[string]string{
			"structured_output":      "Individual articles with metadata for easy UI parsing",
			"backward_compatibility": "Markdown endpoints remain available",
			"ui_ready":               "No frontend parsing required for structured endpoints",
			"prompt_versioning":      "Structured responses carry the prompt/parser contract version",
		},
		PoweredBy: []string{"OpenAI " + model, "Nominatim", "DuckDuckGo", "Gin"},
	}}
}

func (h *RootHandler) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
}

func (h *RootHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}
