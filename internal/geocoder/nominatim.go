package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Geocoder maps coordinates to a place name. Implementations never fail the
// request: lookups that go wrong resolve to a fallback label.
type Geocoder interface {
	Reverse(ctx context.Context, latitude, longitude, radius float64) models.LocationInfo
}

type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

// addressPreference is the order in which address parts are tried.
var addressPreference = []string{"city", "town", "village", "municipality", "county", "state", "country"}

type Nominatim struct {
	baseURL      string
	userAgent    string
	fallbackName string
	httpClient   *http.Client
	logger       *logrus.Logger
}

func NewNominatim(baseURL, userAgent, fallbackName string, timeout time.Duration, logger *logrus.Logger) *Nominatim {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if fallbackName == "" {
		fallbackName = "Unknown Location"
	}
	return &Nominatim{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    userAgent,
		fallbackName: fallbackName,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

func (n *Nominatim) Reverse(ctx context.Context, latitude, longitude, radius float64) models.LocationInfo {
	info := models.LocationInfo{
		Latitude:  latitude,
		Longitude: longitude,
		Radius:    radius,
	}

	name, err := n.lookup(ctx, latitude, longitude)
	if err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"latitude":  latitude,
			"longitude": longitude,
		}).Warn("Reverse geocoding failed, using fallback location name")
		info.Name = n.fallbackName
		return info
	}

	info.Name = name
	info.Resolved = true
	return info
}

func (n *Nominatim) lookup(ctx context.Context, latitude, longitude float64) (string, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("accept-language", "en")
	params.Set("zoom", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("geocoder error: %s", body.Error)
	}

	if name := pickName(body.Address); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("no usable address for coordinates")
}

func pickName(address map[string]string) string {
	for _, key := range addressPreference {
		if v := strings.TrimSpace(address[key]); v != "" {
			return v
		}
	}
	return ""
}

// Static always resolves to the same name without a network call.
type Static struct {
	Name string
}

func (s Static) Reverse(_ context.Context, latitude, longitude, radius float64) models.LocationInfo {
	return models.LocationInfo{
		Name:      s.Name,
		Latitude:  latitude,
		Longitude: longitude,
		Radius:    radius,
		Resolved:  true,
	}
}
