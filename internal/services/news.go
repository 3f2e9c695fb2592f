package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/agents"
	"github.com/Ayash-Bera/geonews/backend/internal/archive"
	"github.com/Ayash-Bera/geonews/backend/internal/geocoder"
	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/internal/normalizer"
	"github.com/Ayash-Bera/geonews/backend/internal/prompts"
	"github.com/sirupsen/logrus"
)

const archiveTimeout = 10 * time.Second

// NewsService composes geocoding, the agent pipeline, normalization and archiving.
type NewsService struct {
	geocoder        geocoder.Geocoder
	generator       agents.Generator
	archive         archive.Archive
	pipelineTimeout time.Duration
	logger          *logrus.Logger
	now             func() time.Time
	pending         sync.WaitGroup
}

func NewNewsService(
	geo geocoder.Geocoder,
	generator agents.Generator,
	arc archive.Archive,
	pipelineTimeout time.Duration,
	logger *logrus.Logger,
) *NewsService {
	if arc == nil {
		arc = archive.Noop{}
	}
	return &NewsService{
		geocoder:        geo,
		generator:       generator,
		archive:         arc,
		pipelineTimeout: pipelineTimeout,
		logger:          logger,
		now:             time.Now,
	}
}

// Locate resolves a place name for the request. It never fails.
func (s *NewsService) Locate(ctx context.Context, p models.NewsParams) models.LocationInfo {
	return s.geocoder.Reverse(ctx, p.Latitude, p.Longitude, p.Radius)
}

// MarkdownReport returns the team's article for loc as markdown.
func (s *NewsService) MarkdownReport(ctx context.Context, loc models.LocationInfo, p models.NewsParams) (*models.NewsResponse, error) {
	req := models.ReportRequest{
		Location:   loc,
		Categories: p.Categories,
		MaxResults: p.MaxResults,
		Mode:       models.ModeMarkdown,
	}

	raw, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	text, err := normalizer.Extract(raw)
	if err != nil {
		s.logger.WithError(err).WithField("location", loc.Name).Error("Agent output had no text")
		return nil, err
	}

	generated := s.now()
	s.archiveAsync(archive.Report{
		Location:      loc,
		Mode:          models.ModeMarkdown,
		PromptVersion: prompts.Version,
		Content:       text,
		Status:        models.StatusSuccess,
		GeneratedAt:   generated,
	})

	return &models.NewsResponse{
		LocationName: loc.Name,
		Coordinates:  loc.Coordinates(),
		Article:      text,
		GeneratedAt:  generated.UTC().Format(time.RFC3339),
		Status:       models.StatusSuccess,
	}, nil
}

// StructuredReport returns the team's report for loc parsed into articles.
func (s *NewsService) StructuredReport(ctx context.Context, loc models.LocationInfo, p models.NewsParams) (*models.StructuredNewsResponse, error) {
	req := models.ReportRequest{
		Location:   loc,
		Categories: p.Categories,
		MaxResults: p.MaxResults,
		Mode:       models.ModeStructured,
	}

	raw, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	text, err := normalizer.Extract(raw)
	if err != nil {
		s.logger.WithError(err).WithField("location", loc.Name).Error("Agent output had no text")
		return nil, err
	}

	generated := s.now()
	result := normalizer.Parse(text, normalizer.Options{
		Categories:  prompts.Categories(req),
		GeneratedAt: generated,
	})

	log := s.logger.WithFields(logrus.Fields{
		"location": loc.Name,
		"strategy": result.Strategy,
		"articles": result.Total,
	})
	if result.Status == models.StatusDegraded {
		log.Warn("No articles could be parsed from agent output")
	} else {
		log.Info("Structured report parsed")
	}

	s.archiveAsync(archive.Report{
		Location:      loc,
		Mode:          models.ModeStructured,
		PromptVersion: prompts.Version,
		Content:       text,
		ArticleCount:  result.Total,
		Status:        result.Status,
		GeneratedAt:   generated,
	})

	return &models.StructuredNewsResponse{
		LocationName:  loc.Name,
		Coordinates:   loc.Coordinates(),
		NewsArticles:  result.Articles,
		Categories:    result.Categories,
		TotalArticles: result.Total,
		GeneratedAt:   generated.UTC().Format(time.RFC3339),
		Status:        result.Status,
		PromptVersion: prompts.Version,
	}, nil
}

// generate runs the pipeline under the configured timeout.
func (s *NewsService) generate(ctx context.Context, req models.ReportRequest) (any, error) {
	if s.pipelineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pipelineTimeout)
		defer cancel()
	}

	start := time.Now()
	log := s.logger.WithFields(logrus.Fields{
		"location":    req.Location.Name,
		"mode":        req.Mode,
		"max_results": req.MaxResults,
	})
	log.Info("Generating news report")

	raw, err := s.generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, agents.ErrNotConfigured) {
			log.WithError(err).Warn("Pipeline not configured")
			return nil, err
		}
		var pipelineErr *agents.PipelineError
		if !errors.As(err, &pipelineErr) {
			err = &agents.PipelineError{Stage: "pipeline", Err: err}
		}
		log.WithError(err).WithField("duration", time.Since(start).String()).Error("Pipeline failed")
		return nil, err
	}

	log.WithField("duration", time.Since(start).String()).Info("Pipeline finished")
	return raw, nil
}

func (s *NewsService) archiveAsync(report archive.Report) {
	if _, ok := s.archive.(archive.Noop); ok {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := s.archive.Save(ctx, report); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"driver":   s.archive.Driver(),
				"location": report.Location.Name,
			}).Warn("Failed to archive report")
		}
	}()
}

// Wait blocks until pending archive writes finish.
func (s *NewsService) Wait() {
	s.pending.Wait()
}

// ArchiveDriver names the configured archive backend.
func (s *NewsService) ArchiveDriver() string {
	return s.archive.Driver()
}

// Archive returns the configured archive backend.
func (s *NewsService) Archive() archive.Archive {
	return s.archive
}
