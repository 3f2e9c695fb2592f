package repository

import (
	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"gorm.io/gorm"
)

// NewsReportRepositoryImpl implements models.NewsReportRepository
type NewsReportRepositoryImpl struct {
	db *gorm.DB
}

func NewNewsReportRepository(db *gorm.DB) models.NewsReportRepository {
	return &NewsReportRepositoryImpl{db: db}
}

func (r *NewsReportRepositoryImpl) Create(report *models.NewsReport) error {
	return r.db.Create(report).Error
}

func (r *NewsReportRepositoryImpl) GetRecent(limit int) ([]models.NewsReport, error) {
	var reports []models.NewsReport
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *NewsReportRepositoryImpl) GetByLocation(locationName string, limit int) ([]models.NewsReport, error) {
	var reports []models.NewsReport
	err := r.db.Where("location_name = ?", locationName).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

// RepositoryManager groups the repositories behind one connection.
type RepositoryManager struct {
	NewsReport models.NewsReportRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		NewsReport: NewNewsReportRepository(db),
	}
}
