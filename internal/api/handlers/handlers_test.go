package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/agents"
	"github.com/Ayash-Bera/geonews/backend/internal/archive"
	"github.com/Ayash-Bera/geonews/backend/internal/health"
	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/internal/prompts"
	"github.com/Ayash-Bera/geonews/backend/internal/services"
	"github.com/Ayash-Bera/geonews/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const teamOutput = `### Politics
1. **City council approves new transit budget**
   The council voted 7-2 to fund two new bus lines. The plan takes effect next year.
   [Read more](https://www.nytimes.com/transit) (The New York Times, May 22, 2025)

2. **Weekend street fair draws crowds**
   Thousands visited the annual fair downtown.
   [Read more](https://www.example.com/fair)`

type fakeGenerator struct {
	out      any
	err      error
	calls    atomic.Int32
	requests chan models.ReportRequest
}

func (g *fakeGenerator) Generate(_ context.Context, req models.ReportRequest) (any, error) {
	g.calls.Add(1)
	if g.requests != nil {
		g.requests <- req
	}
	return g.out, g.err
}

type countingGeocoder struct {
	calls atomic.Int32
}

func (g *countingGeocoder) Reverse(_ context.Context, lat, lon, radius float64) models.LocationInfo {
	g.calls.Add(1)
	return models.LocationInfo{Name: "New York City", Latitude: lat, Longitude: lon, Radius: radius, Resolved: true}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestRouter(gen *fakeGenerator, geo *countingGeocoder) *gin.Engine {
	logger := quietLogger()
	service := services.NewNewsService(geo, gen, archive.Noop{}, time.Minute, logger)

	router := gin.New()
	NewNewsHandler(service, logger).Register(router)
	NewHealthHandler(health.NewHealthChecker(ServiceVersion, gen.err == nil, archive.Noop{}, logger)).Register(router)
	NewRootHandler("gpt-4o").Register(router)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp
}

func TestGetStructuredNews(t *testing.T) {
	gen := &fakeGenerator{out: &agents.TeamRunResponse{Content: teamOutput}}
	geo := &countingGeocoder{}
	router := newTestRouter(gen, geo)

	w := postJSON(router, "/news/structured",
		`{"latitude":40.7128,"longitude":-74.0060,"radius":10,"max_results":5,"categories":["Politics"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StructuredNewsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "New York City", resp.LocationName)
	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, prompts.Version, resp.PromptVersion)
	assert.Equal(t, len(resp.NewsArticles), resp.TotalArticles)
	require.Len(t, resp.NewsArticles, 2)

	sum := 0
	for category, n := range resp.Categories {
		assert.Contains(t, []string{"Politics", "General"}, category)
		sum += n
	}
	assert.Equal(t, resp.TotalArticles, sum)

	for i, a := range resp.NewsArticles {
		assert.Equal(t, fmt.Sprint(i+1), a.ID)
		assert.GreaterOrEqual(t, a.RelevanceScore, 0.0)
		assert.LessOrEqual(t, a.RelevanceScore, 1.0)
	}
	assert.Equal(t, "The New York Times", resp.NewsArticles[0].Source)
	assert.Equal(t, int32(1), geo.calls.Load())
}

func TestGetNewsMarkdown(t *testing.T) {
	gen := &fakeGenerator{out: map[string]any{"content": "# Local news\n\nAll quiet today."}}
	router := newTestRouter(gen, &countingGeocoder{})

	w := postJSON(router, "/news", `{"latitude":51.5074,"longitude":-0.1278}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.NewsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "# Local news\n\nAll quiet today.", resp.Article)
	assert.Equal(t, models.DefaultRadius, resp.Coordinates.Radius)
	assert.Equal(t, models.StatusSuccess, resp.Status)
	_, err := time.Parse(time.RFC3339, resp.GeneratedAt)
	assert.NoError(t, err)
}

func TestInvalidRequestsSkipOutboundCalls(t *testing.T) {
	cases := map[string]string{
		"latitude out of range": `{"latitude":999,"longitude":0}`,
		"missing longitude":     `{"latitude":10}`,
		"radius too small":      `{"latitude":10,"longitude":10,"radius":0.5}`,
		"too many results":      `{"latitude":10,"longitude":10,"max_results":50}`,
		"malformed json":        `{"latitude":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{out: "unused"}
			geo := &countingGeocoder{}
			router := newTestRouter(gen, geo)

			for _, path := range []string{"/news", "/news/structured"} {
				w := postJSON(router, path, body)
				assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
				assert.Equal(t, utils.KindValidation, decodeError(t, w).Kind)
			}
			assert.Zero(t, geo.calls.Load())
			assert.Zero(t, gen.calls.Load())
		})
	}
}

func TestPipelineFailures(t *testing.T) {
	cases := []struct {
		name string
		gen  *fakeGenerator
		code int
		kind string
	}{
		{"empty output", &fakeGenerator{out: &agents.TeamRunResponse{}}, http.StatusBadGateway, utils.KindExtraction},
		{"unknown shape", &fakeGenerator{out: 42}, http.StatusBadGateway, utils.KindExtraction},
		{"not configured", &fakeGenerator{err: agents.ErrNotConfigured}, http.StatusServiceUnavailable, utils.KindConfiguration},
		{"stage failure", &fakeGenerator{err: &agents.PipelineError{Stage: agents.Writer.Name, Err: fmt.Errorf("boom")}}, http.StatusBadGateway, utils.KindPipeline},
		{"timeout", &fakeGenerator{err: &agents.PipelineError{Stage: agents.Editor.Name, Err: context.DeadlineExceeded}}, http.StatusGatewayTimeout, utils.KindPipeline},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(tc.gen, &countingGeocoder{})

			for _, path := range []string{"/news", "/news/structured"} {
				w := postJSON(router, path, `{"latitude":40.7128,"longitude":-74.0060}`)
				assert.Equal(t, tc.code, w.Code, path)
				resp := decodeError(t, w)
				assert.Equal(t, tc.kind, resp.Kind)
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}

func TestSampleEndpoints(t *testing.T) {
	gen := &fakeGenerator{
		out:      &agents.TeamRunResponse{Content: teamOutput},
		requests: make(chan models.ReportRequest, 2),
	}
	geo := &countingGeocoder{}
	router := newTestRouter(gen, geo)

	w := get(router, "/test-news")
	require.Equal(t, http.StatusOK, w.Code)
	req := <-gen.requests
	assert.Equal(t, models.ModeMarkdown, req.Mode)
	assert.Equal(t, sampleMarkdownResults, req.MaxResults)
	assert.Equal(t, SampleLocation, req.Location)

	w = get(router, "/test-news/structured")
	require.Equal(t, http.StatusOK, w.Code)
	req = <-gen.requests
	assert.Equal(t, models.ModeStructured, req.Mode)
	assert.Equal(t, sampleStructuredResults, req.MaxResults)
	assert.Empty(t, req.Categories)

	var resp models.StructuredNewsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "New York City", resp.LocationName)
	assert.Zero(t, geo.calls.Load())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeGenerator{err: agents.ErrNotConfigured}, &countingGeocoder{})

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, health.StatusDegraded, resp.Status)
	assert.False(t, resp.Environment.OpenAIConfigured)
	assert.Equal(t, archive.DriverNone, resp.Environment.ArchiveDriver)
	assert.Equal(t, health.StatusNotConfigured, resp.Components["writer"])
}

func TestRoot(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, &countingGeocoder{})

	w := get(router, "/")
	require.Equal(t, http.StatusOK, w.Code)

	var info ServiceInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, ServiceName, info.Name)
	assert.Equal(t, ServiceVersion, info.Version)
	assert.Contains(t, info.Endpoints, "POST /news/structured")
	assert.Contains(t, info.Features, "structured_output")
}
