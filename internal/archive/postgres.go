package archive

import (
	"context"
	"fmt"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
)

// PostgresArchive stores reports through the news report repository.
type PostgresArchive struct {
	repo models.NewsReportRepository
	ping func(ctx context.Context) error
}

func NewPostgresArchive(repo models.NewsReportRepository, ping func(ctx context.Context) error) *PostgresArchive {
	return &PostgresArchive{repo: repo, ping: ping}
}

func (a *PostgresArchive) Save(ctx context.Context, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.repo.Create(report.record()); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// Recent returns up to limit stored reports, newest first.
func (a *PostgresArchive) Recent(ctx context.Context, location string, limit int) ([]models.NewsReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows []models.NewsReport
		err  error
	)
	if location != "" {
		rows, err = a.repo.GetByLocation(location, limit)
	} else {
		rows, err = a.repo.GetRecent(limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}
	return rows, nil
}

func (a *PostgresArchive) Ping(ctx context.Context) error {
	if a.ping == nil {
		return nil
	}
	return a.ping(ctx)
}

func (a *PostgresArchive) Driver() string { return DriverPostgres }
