package app

import (
	"fmt"
	"os"

	"github.com/Ayash-Bera/geonews/backend/internal/agents"
	"github.com/Ayash-Bera/geonews/backend/internal/archive"
	"github.com/Ayash-Bera/geonews/backend/internal/config"
	"github.com/Ayash-Bera/geonews/backend/internal/database"
	"github.com/Ayash-Bera/geonews/backend/internal/geocoder"
	"github.com/Ayash-Bera/geonews/backend/internal/health"
	"github.com/Ayash-Bera/geonews/backend/internal/openai"
	"github.com/Ayash-Bera/geonews/backend/internal/services"
	"github.com/sirupsen/logrus"
)

// App holds the wired service graph shared by the server and the CLI.
type App struct {
	News   *services.NewsService
	Health *health.HealthChecker
	Model  string
	db     *database.Manager
	logger *logrus.Logger
}

// New wires every component from cfg. Database connections are opened only
// when the archive driver needs them.
func New(cfg *config.Config, version string, logger *logrus.Logger) (*App, error) {
	a := &App{logger: logger}

	if err := cfg.ValidateOpenAI(); err != nil {
		logger.WithError(err).Warn("News generation disabled until the provider is configured")
	}

	if cfg.Archive.Driver == archive.DriverPostgres || cfg.Archive.Driver == archive.DriverRedis {
		dbConfig := &database.Config{LogLevel: os.Getenv("LOG_LEVEL")}
		if cfg.Archive.Driver == archive.DriverPostgres {
			dbConfig.DatabaseURL = cfg.Database.URL
		} else {
			dbConfig.RedisURL = cfg.Redis.URL
		}

		db, err := database.NewManager(dbConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database manager: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
		}
		a.db = db
	}

	arc, err := archive.New(archive.Options{
		Driver:    cfg.Archive.Driver,
		Dir:       cfg.Archive.Dir,
		RedisKeep: cfg.Archive.RedisKeep,
		RedisTTL:  cfg.Archive.RedisTTL,
	}, a.db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize archive: %w", err)
	}

	retry := openai.DefaultRetryConfig()
	retry.MaxRetries = cfg.OpenAI.MaxRetries
	client := openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Timeout, logger).WithRetry(retry)
	model := openai.NewService(client, cfg.OpenAI.Model, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens, logger)
	a.Model = model.Model()

	search := agents.NewWebSearcher(cfg.Search.BaseURL, agents.DefaultUserAgent, cfg.Reader.Timeout, logger)
	reader := agents.NewArticleReader(agents.DefaultUserAgent, cfg.Reader.Timeout, cfg.Reader.MaxChars, logger)

	opts := agents.DefaultTeamOptions()
	opts.MaxSources = cfg.Search.MaxResults
	team := agents.NewTeam(model, search, reader, opts, logger)

	geo := geocoder.NewNominatim(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.FallbackName, cfg.Geocoder.Timeout, logger)

	a.News = services.NewNewsService(geo, team, arc, cfg.Pipeline.Timeout, logger)
	a.Health = health.NewHealthChecker(version, cfg.OpenAIConfigured(), arc, logger)

	logger.WithFields(logrus.Fields{
		"model":   a.Model,
		"archive": arc.Driver(),
	}).Info("News service initialized")

	return a, nil
}

// Close waits for pending archive writes, then closes connections.
func (a *App) Close() {
	if a.News != nil {
		a.News.Wait()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close database connections")
		}
	}
}
