// Package archive keeps a best-effort copy of every generated report.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
)

// Drivers accepted by New.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverNone     = "none"
)

// Report is one generated report as it leaves the service.
type Report struct {
	Location      models.LocationInfo
	Mode          string
	PromptVersion string
	Content       string
	ArticleCount  int
	Status        string
	GeneratedAt   time.Time
}

// Archive stores reports. Save failures never reach the client.
type Archive interface {
	Save(ctx context.Context, report Report) error
	Ping(ctx context.Context) error
	Driver() string
}

// History is implemented by backends that can list stored reports.
type History interface {
	Recent(ctx context.Context, location string, limit int) ([]models.NewsReport, error)
}

func (r Report) validate() error {
	if r.Content == "" {
		return fmt.Errorf("report has no content")
	}
	if r.Mode != models.ModeMarkdown && r.Mode != models.ModeStructured {
		return fmt.Errorf("invalid report mode: %s", r.Mode)
	}
	return nil
}

func (r Report) record() *models.NewsReport {
	return &models.NewsReport{
		LocationName:  r.Location.Name,
		Latitude:      r.Location.Latitude,
		Longitude:     r.Location.Longitude,
		Radius:        r.Location.Radius,
		Mode:          r.Mode,
		PromptVersion: r.PromptVersion,
		Content:       r.Content,
		ArticleCount:  r.ArticleCount,
		Status:        r.Status,
		CreatedAt:     r.GeneratedAt,
	}
}

// Noop discards reports.
type Noop struct{}

func (Noop) Save(context.Context, Report) error { return nil }
func (Noop) Ping(context.Context) error         { return nil }
func (Noop) Driver() string                     { return DriverNone }
