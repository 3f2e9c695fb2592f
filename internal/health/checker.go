package health

import (
	"context"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/archive"
	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/internal/prompts"
	"github.com/sirupsen/logrus"
)

// Component and overall status values.
const (
	StatusHealthy       = "healthy"
	StatusDegraded      = "degraded"
	StatusUnhealthy     = "unhealthy"
	StatusActive        = "active"
	StatusNotConfigured = "not_configured"
	StatusDisabled      = "disabled"
)

const checkTimeout = 3 * time.Second

// HealthChecker reports dependency status for /health.
type HealthChecker struct {
	version          string
	openaiConfigured bool
	archive          archive.Archive
	logger           *logrus.Logger
}

func NewHealthChecker(version string, openaiConfigured bool, arc archive.Archive, logger *logrus.Logger) *HealthChecker {
	if arc == nil {
		arc = archive.Noop{}
	}
	return &HealthChecker{
		version:          version,
		openaiConfigured: openaiConfigured,
		archive:          arc,
		logger:           logger,
	}
}

// ServiceHealth represents the health status of a service
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// CheckArchive pings the archive backend.
func (h *HealthChecker) CheckArchive(ctx context.Context) ServiceHealth {
	name := "archive_" + h.archive.Driver()
	if h.archive.Driver() == archive.DriverNone {
		return ServiceHealth{Name: name, Status: StatusDisabled, LastChecked: time.Now().Format(time.RFC3339)}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := h.archive.Ping(ctx)
	responseTime := int(time.Since(start).Milliseconds())

	status := StatusHealthy
	errorMsg := ""
	if err != nil {
		status = StatusUnhealthy
		errorMsg = err.Error()
		h.logger.WithError(err).WithField("driver", h.archive.Driver()).Error("Archive health check failed")
	}

	return ServiceHealth{
		Name:         name,
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// Check builds the /health payload. A missing provider key or an unreachable
// archive makes the service degraded, not down.
func (h *HealthChecker) Check(ctx context.Context) models.HealthResponse {
	agentStatus := StatusActive
	openaiStatus := "configured"
	if !h.openaiConfigured {
		agentStatus = StatusNotConfigured
		openaiStatus = StatusNotConfigured
	}

	archiveHealth := h.CheckArchive(ctx)

	overall := StatusHealthy
	if !h.openaiConfigured || archiveHealth.Status == StatusUnhealthy {
		overall = StatusDegraded
	}

	return models.HealthResponse{
		Status:    overall,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Components: map[string]string{
			"searcher":    agentStatus,
			"writer":      agentStatus,
			"editor_team": agentStatus,
			"geocoding":   StatusActive,
			"openai":      openaiStatus,
			"archive":     archiveHealth.Status,
		},
		Environment: models.HealthEnvironment{
			OpenAIConfigured: h.openaiConfigured,
			ArchiveDriver:    h.archive.Driver(),
			PromptVersion:    prompts.Version,
		},
	}
}
