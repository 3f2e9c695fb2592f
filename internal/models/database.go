package models

// GORM models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report modes
const (
	ModeMarkdown   = "markdown"
	ModeStructured = "structured"
)

// NewsReport is the archived copy of one generated report.
type NewsReport struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	LocationName  string    `json:"location_name" gorm:"not null"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Radius        float64   `json:"radius"`
	Mode          string    `json:"mode" gorm:"not null;check:mode IN ('markdown','structured')"`
	PromptVersion string    `json:"prompt_version"`
	Content       string    `json:"content" gorm:"type:text"`
	ArticleCount  int       `json:"article_count" gorm:"default:0"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type NewsReportRepository interface {
	Create(report *NewsReport) error
	GetRecent(limit int) ([]NewsReport, error)
	GetByLocation(locationName string, limit int) ([]NewsReport, error)
}

func (NewsReport) TableName() string { return "news_reports" }

func (r *NewsReport) Validate() error {
	if r.LocationName == "" {
		return fmt.Errorf("location name is required")
	}
	if r.Mode != ModeMarkdown && r.Mode != ModeStructured {
		return fmt.Errorf("invalid report mode: %s", r.Mode)
	}
	return nil
}

// GORM hooks
func (r *NewsReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return r.Validate()
}
