package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestNominatim(t *testing.T, handler http.HandlerFunc) *Nominatim {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewNominatim(server.URL, "news_app_test", "Unknown Location", time.Second, logrus.New())
}

func TestReverse_City(t *testing.T) {
	g := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "40.7128", r.URL.Query().Get("lat"))
		assert.Equal(t, "-74.006", r.URL.Query().Get("lon"))
		assert.Equal(t, "en", r.URL.Query().Get("accept-language"))
		assert.Equal(t, "news_app_test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"display_name":"New York, United States","address":{"city":"New York City","state":"New York","country":"United States"}}`))
	})

	info := g.Reverse(context.Background(), 40.7128, -74.0060, 10)
	assert.Equal(t, "New York City", info.Name)
	assert.True(t, info.Resolved)
	assert.Equal(t, 10.0, info.Radius)
}

func TestReverse_FallsBackToState(t *testing.T) {
	g := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"state":"California","country":"United States"}}`))
	})

	info := g.Reverse(context.Background(), 37.7749, -122.4194, 10)
	assert.Equal(t, "California", info.Name)
}

func TestReverse_FailuresUseFallbackName(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"unable to geocode": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"Unable to geocode"}`))
		},
		"empty address": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"address":{}}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			info := newTestNominatim(t, handler).Reverse(context.Background(), 0, 0, 10)
			assert.Equal(t, "Unknown Location", info.Name)
			assert.False(t, info.Resolved)
		})
	}
}

func TestReverse_UnreachableProvider(t *testing.T) {
	g := NewNominatim("http://127.0.0.1:1", "ua", "", 200*time.Millisecond, logrus.New())

	info := g.Reverse(context.Background(), 51.5, -0.12, 5)
	assert.Equal(t, "Unknown Location", info.Name)
	assert.False(t, info.Resolved)
}

func TestStatic(t *testing.T) {
	info := Static{Name: "New York City"}.Reverse(context.Background(), 40.7128, -74.0060, 10)
	assert.Equal(t, "New York City", info.Name)
	assert.True(t, info.Resolved)
}
