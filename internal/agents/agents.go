// Package agents runs the searcher, writer and editor that produce a news report.
package agents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/internal/openai"
)

// ErrNotConfigured is returned before any network call when no provider key is set.
var ErrNotConfigured = errors.New("language model provider is not configured: set OPENAI_API_KEY")

// PipelineError wraps a failure of one team member.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("agent pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline.
func (e *PipelineError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Generator produces raw report output for a request. Callers only rely on
// the returned value carrying text somewhere inside it.
type Generator interface {
	Generate(ctx context.Context, req models.ReportRequest) (any, error)
}

// ChatModel is the language model the members talk to.
type ChatModel interface {
	Configured() bool
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchTool finds candidate sources on the web.
type SearchTool interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type Article struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Byline   string `json:"byline"`
	SiteName string `json:"site_name"`
	Excerpt  string `json:"excerpt"`
	Text     string `json:"text"`
}

// ReadTool fetches one source and extracts its readable text.
type ReadTool interface {
	Read(ctx context.Context, link string) (Article, error)
}

// MemberResponse is one member's contribution to a run.
type MemberResponse struct {
	Member   string        `json:"member"`
	Role     string        `json:"role"`
	Content  string        `json:"content"`
	Duration time.Duration `json:"duration"`
}

// TeamRunResponse is the result of a team run. Content holds the editor's final text.
type TeamRunResponse struct {
	Content         string           `json:"content"`
	Sources         []SearchResult   `json:"sources"`
	MemberResponses []MemberResponse `json:"member_responses"`
}

func (r *TeamRunResponse) RawContent() string { return r.Content }
