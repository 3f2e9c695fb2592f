package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/internal/openai"
	"github.com/Ayash-Bera/geonews/backend/internal/prompts"
	"github.com/sirupsen/logrus"
)

// Member names a role in the team.
type Member struct {
	Name string
	Role string
}

var (
	Searcher = Member{Name: "Searcher", Role: "Searches for top news articles about a location"}
	Writer   = Member{Name: "Writer", Role: "Writes a news report from the retrieved sources"}
	Editor   = Member{Name: "Editor", Role: "Reviews the draft and returns the final report"}
)

type TeamOptions struct {
	// MaxSources caps unique search results kept across all terms.
	MaxSources      int
	MaxTerms        int
	ReadConcurrency int
}

func DefaultTeamOptions() TeamOptions {
	return TeamOptions{
		MaxSources:      10,
		MaxTerms:        5,
		ReadConcurrency: 4,
	}
}

// Team runs Searcher, Writer and Editor in sequence.
type Team struct {
	model  ChatModel
	search SearchTool
	reader ReadTool
	opts   TeamOptions
	logger *logrus.Logger
}

func NewTeam(model ChatModel, search SearchTool, reader ReadTool, opts TeamOptions, logger *logrus.Logger) *Team {
	defaults := DefaultTeamOptions()
	if opts.MaxSources <= 0 {
		opts.MaxSources = defaults.MaxSources
	}
	if opts.MaxTerms <= 0 {
		opts.MaxTerms = defaults.MaxTerms
	}
	if opts.ReadConcurrency <= 0 {
		opts.ReadConcurrency = defaults.ReadConcurrency
	}
	return &Team{
		model:  model,
		search: search,
		reader: reader,
		opts:   opts,
		logger: logger,
	}
}

// Generate implements Generator.
func (t *Team) Generate(ctx context.Context, req models.ReportRequest) (any, error) {
	if !t.model.Configured() {
		return nil, ErrNotConfigured
	}
	resp, err := t.Run(ctx, req)
	if err != nil {
		if errors.Is(err, openai.ErrMissingAPIKey) {
			return nil, ErrNotConfigured
		}
		return nil, err
	}
	return resp, nil
}

// Run executes one report. Errors are *PipelineError.
func (t *Team) Run(ctx context.Context, req models.ReportRequest) (*TeamRunResponse, error) {
	task := prompts.Build(req)
	run := &TeamRunResponse{}
	log := t.logger.WithFields(logrus.Fields{
		"location": req.Location.Name,
		"mode":     req.Mode,
	})

	stageStart := time.Now()
	terms, err := t.searchTerms(ctx, req, task)
	if err != nil {
		return nil, &PipelineError{Stage: Searcher.Name, Err: err}
	}
	sources := t.gatherSources(ctx, terms)
	if err := ctx.Err(); err != nil {
		return nil, &PipelineError{Stage: Searcher.Name, Err: err}
	}
	run.Sources = sources
	run.add(Searcher, formatSources(terms, sources), stageStart)
	log.WithFields(logrus.Fields{
		"terms":   len(terms),
		"sources": len(sources),
	}).Info("Searcher finished")

	stageStart = time.Now()
	articles := t.readSources(ctx, sources, req.MaxResults+2)
	draft, err := t.model.Complete(ctx, writerMessages(req, task, terms, sources, articles))
	if err != nil {
		return nil, &PipelineError{Stage: Writer.Name, Err: err}
	}
	run.add(Writer, draft, stageStart)
	log.WithFields(logrus.Fields{
		"articles_read": len(articles),
		"draft_length":  len(draft),
	}).Info("Writer finished")

	stageStart = time.Now()
	final, err := t.model.Complete(ctx, editorMessages(req, task, draft))
	if err != nil {
		return nil, &PipelineError{Stage: Editor.Name, Err: err}
	}
	if strings.TrimSpace(final) == "" {
		log.Warn("Editor returned no text, using the writer draft")
		final = draft
	}
	run.add(Editor, final, stageStart)
	run.Content = final
	log.WithField("content_length", len(final)).Info("Editor finished")

	return run, nil
}

func (r *TeamRunResponse) add(m Member, content string, start time.Time) {
	r.MemberResponses = append(r.MemberResponses, MemberResponse{
		Member:   m.Name,
		Role:     m.Role,
		Content:  content,
		Duration: time.Since(start),
	})
}

func (t *Team) searchTerms(ctx context.Context, req models.ReportRequest, task string) ([]string, error) {
	subject := prompts.SearchSubject(req)
	reply, err := t.model.Complete(ctx, []openai.Message{
		openai.SystemMessage(prompts.SearcherInstructions),
		openai.UserMessage(fmt.Sprintf("Topic: %s\n\nAssignment:\n%s", subject, task)),
	})
	if err != nil {
		return nil, err
	}

	terms := parseTerms(reply, t.opts.MaxTerms)
	if len(terms) == 0 {
		terms = []string{subject}
	}
	return terms, nil
}

var termPrefix = regexp.MustCompile(`^\s*(?:[-*•]|\d{1,2}[.)])\s*`)

// parseTerms reads one search term per line, dropping list markers and quotes.
func parseTerms(reply string, limit int) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(reply, "\n") {
		term := termPrefix.ReplaceAllString(line, "")
		term = strings.Trim(strings.TrimSpace(term), "\"'`*")
		key := strings.ToLower(term)
		if term == "" || seen[key] || strings.HasSuffix(term, ":") {
			continue
		}
		seen[key] = true
		terms = append(terms, term)
		if len(terms) == limit {
			break
		}
	}
	return terms
}

// gatherSources runs every term through the search tool. Failed searches are skipped.
func (t *Team) gatherSources(ctx context.Context, terms []string) []SearchResult {
	var sources []SearchResult
	seen := make(map[string]bool)

	for _, term := range terms {
		if ctx.Err() != nil || len(sources) >= t.opts.MaxSources {
			break
		}
		results, err := t.search.Search(ctx, term, t.opts.MaxSources)
		if err != nil {
			t.logger.WithError(err).WithField("term", term).Warn("Web search failed")
			continue
		}
		for _, r := range results {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			sources = append(sources, r)
			if len(sources) >= t.opts.MaxSources {
				break
			}
		}
	}
	return sources
}

// readSources reads up to limit sources concurrently, keeping source order.
func (t *Team) readSources(ctx context.Context, sources []SearchResult, limit int) []Article {
	if len(sources) > limit {
		sources = sources[:limit]
	}

	read := make([]*Article, len(sources))
	semaphore := make(chan struct{}, t.opts.ReadConcurrency)
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src SearchResult) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				return
			}

			article, err := t.reader.Read(ctx, src.URL)
			if err != nil {
				t.logger.WithError(err).WithField("url", src.URL).Warn("Failed to read source")
				return
			}
			if article.Title == "" {
				article.Title = src.Title
			}
			read[i] = &article
		}(i, src)
	}
	wg.Wait()

	var articles []Article
	for _, a := range read {
		if a != nil {
			articles = append(articles, *a)
		}
	}
	return articles
}

func formatSources(terms []string, sources []SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search terms: %s\n", strings.Join(terms, "; "))
	for i, s := range sources {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, s.Title, s.URL)
	}
	return strings.TrimSpace(b.String())
}

func expectedOutput(req models.ReportRequest) string {
	if req.Mode == models.ModeStructured {
		return prompts.StructuredExpectedOutput
	}
	return prompts.MarkdownExpectedOutput
}

func writerMessages(req models.ReportRequest, task string, terms []string, sources []SearchResult, articles []Article) []openai.Message {
	system := prompts.WriterInstructions
	if req.Mode == models.ModeStructured {
		system += "\n\n" + prompts.StructuredWriterInstructions
	}
	system += "\n\nExpected output:\n" + expectedOutput(req)

	var b strings.Builder
	b.WriteString(task)
	b.WriteString("\nSources:\n")
	switch {
	case len(articles) > 0:
		for i, a := range articles {
			fmt.Fprintf(&b, "\n[%d] %s\nURL: %s\n", i+1, a.Title, a.URL)
			if a.SiteName != "" {
				fmt.Fprintf(&b, "Site: %s\n", a.SiteName)
			}
			if a.Byline != "" {
				fmt.Fprintf(&b, "Byline: %s\n", a.Byline)
			}
			if a.Excerpt != "" {
				fmt.Fprintf(&b, "Summary: %s\n", a.Excerpt)
			}
			fmt.Fprintf(&b, "%s\n", a.Text)
		}
	case len(sources) > 0:
		for i, s := range sources {
			fmt.Fprintf(&b, "\n[%d] %s\nURL: %s\n%s\n", i+1, s.Title, s.URL, s.Snippet)
		}
	default:
		fmt.Fprintf(&b, "No sources could be retrieved. Search terms used: %s.\n", strings.Join(terms, "; "))
		b.WriteString("Rely on what you know about recent events in this area and do not invent URLs.\n")
	}

	return []openai.Message{
		openai.SystemMessage(system),
		openai.UserMessage(b.String()),
	}
}

func editorMessages(req models.ReportRequest, task, draft string) []openai.Message {
	system := prompts.EditorInstructions
	if req.Mode == models.ModeStructured {
		system = prompts.StructuredEditorInstructions
	}
	user := fmt.Sprintf("Assignment:\n%s\nExpected output:\n%s\n\nDraft from the Writer:\n%s", task, expectedOutput(req), draft)
	return []openai.Message{
		openai.SystemMessage(system),
		openai.UserMessage(user),
	}
}
