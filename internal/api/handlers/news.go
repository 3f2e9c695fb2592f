package handlers

import (
	"errors"
	"net/http"

	"github.com/Ayash-Bera/geonews/backend/internal/agents"
	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/internal/normalizer"
	"github.com/Ayash-Bera/geonews/backend/internal/services"
	"github.com/Ayash-Bera/geonews/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SampleLocation backs the fixed-sample endpoints.
var SampleLocation = models.LocationInfo{
	Name:      "New York City",
	Latitude:  40.7128,
	Longitude: -74.0060,
	Radius:    models.DefaultRadius,
	Resolved:  true,
}

const (
	sampleMarkdownResults   = 5
	sampleStructuredResults = 8
)

type NewsHandler struct {
	newsService *services.NewsService
	logger      *logrus.Logger
}

func NewNewsHandler(newsService *services.NewsService, logger *logrus.Logger) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
		logger:      logger,
	}
}

func (h *NewsHandler) Register(r gin.IRoutes) {
	r.POST("/news", h.GetNews)
	r.POST("/news/structured", h.GetStructuredNews)
	r.GET("/test-news", h.TestNews)
	r.GET("/test-news/structured", h.TestStructuredNews)
}

// GetNews returns a markdown report for the posted coordinates.
func (h *NewsHandler) GetNews(c *gin.Context) {
	params, ok := h.bind(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	loc := h.newsService.Locate(ctx, params)
	resp, err := h.newsService.MarkdownReport(ctx, loc, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStructuredNews returns individual articles for the posted coordinates.
func (h *NewsHandler) GetStructuredNews(c *gin.Context) {
	params, ok := h.bind(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	loc := h.newsService.Locate(ctx, params)
	resp, err := h.newsService.StructuredReport(ctx, loc, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NewsHandler) TestNews(c *gin.Context) {
	resp, err := h.newsService.MarkdownReport(c.Request.Context(), SampleLocation, sampleParams(sampleMarkdownResults))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NewsHandler) TestStructuredNews(c *gin.Context) {
	resp, err := h.newsService.StructuredReport(c.Request.Context(), SampleLocation, sampleParams(sampleStructuredResults))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func sampleParams(maxResults int) models.NewsParams {
	return models.NewsParams{
		Latitude:   SampleLocation.Latitude,
		Longitude:  SampleLocation.Longitude,
		Radius:     SampleLocation.Radius,
		MaxResults: maxResults,
	}
}

// bind validates the request body before any outbound call is made.
func (h *NewsHandler) bind(c *gin.Context) (models.NewsParams, bool) {
	var req models.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, &models.ValidationError{Err: err})
		return models.NewsParams{}, false
	}
	return req.Params(), true
}

// fail maps an error to its status code and error kind.
func (h *NewsHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		validationErr *models.ValidationError
		pipelineErr   *agents.PipelineError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, utils.KindValidation, "Invalid request", err)
	case errors.Is(err, agents.ErrNotConfigured):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, utils.KindConfiguration, "News generation is not configured", err)
	case errors.Is(err, normalizer.ErrExtraction):
		utils.ErrorResponse(c, http.StatusBadGateway, utils.KindExtraction, "The news team returned no usable content", err)
	case errors.As(err, &pipelineErr):
		code := http.StatusBadGateway
		if pipelineErr.Timeout() {
			code = http.StatusGatewayTimeout
		}
		utils.ErrorResponse(c, code, utils.KindPipeline, "The news team failed to produce a report", err)
	default:
		h.logger.WithError(err).Error("Unexpected error while generating news")
		utils.ErrorResponse(c, http.StatusInternalServerError, utils.KindInternal, "Internal server error", err)
	}
}
