package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsRequestParamsDefaults(t *testing.T) {
	lat, lon := 40.7128, -74.0060
	p := NewsRequest{Latitude: &lat, Longitude: &lon}.Params()

	assert.Equal(t, 40.7128, p.Latitude)
	assert.Equal(t, -74.0060, p.Longitude)
	assert.Equal(t, DefaultRadius, p.Radius)
	assert.Equal(t, DefaultMaxResults, p.MaxResults)
	assert.Empty(t, p.Categories)
}

func TestNewsRequestParamsTrimsCategories(t *testing.T) {
	lat, lon, radius, max := 0.0, 0.0, 25.0, 3
	p := NewsRequest{
		Latitude:   &lat,
		Longitude:  &lon,
		Radius:     &radius,
		MaxResults: &max,
		Categories: []string{" Politics ", "", "Sports"},
	}.Params()

	assert.Equal(t, 25.0, p.Radius)
	assert.Equal(t, 3, p.MaxResults)
	assert.Equal(t, []string{"Politics", "Sports"}, p.Categories)
}

func TestNewsReportValidate(t *testing.T) {
	r := &NewsReport{LocationName: "Paris", Mode: ModeStructured}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Len(t, r.ID, 36)

	assert.Error(t, (&NewsReport{Mode: ModeMarkdown}).Validate())
	assert.Error(t, (&NewsReport{LocationName: "Paris", Mode: "pdf"}).Validate())
}
