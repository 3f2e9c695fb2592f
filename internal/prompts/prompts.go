// Package prompts holds the instructions given to the agent team. The
// structured format described here is what the normalizer parses, so the two
// are versioned together through Version.
package prompts

import (
	"fmt"
	"strings"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
)

// Version identifies the prompt/parser contract. Bump it whenever the
// structured format below changes and update the normalizer fixtures with it.
const Version = "structured-v1"

// DefaultCategories are requested from the structured writer when the caller names none.
var DefaultCategories = []string{"Politics", "Sports", "Local News", "Business"}

const SearcherInstructions = `You are a senior news researcher specializing in finding high-quality, recent news articles from reputable sources.
Given a topic or location, generate 3-5 diverse web search terms to ensure comprehensive coverage.
Prioritize recent articles (within the last 7 days), breaking news, major developments and stories with significant impact.
Reply with the search terms only, one per line, without numbering or commentary.`

const WriterInstructions = `You are a senior journalist with expertise in creating engaging, accurate and well-structured news articles.
Carefully read the provided sources, extract key facts, quotes and data points, and synthesize them into one coherent article.
Follow journalistic standards: attribute every fact, stay objective, present multiple perspectives when available.
Write for a general audience.`

const MarkdownExpectedOutput = `A professional news article in markdown format:

# {Compelling Headline}

## Executive Summary
{Brief overview of the main story and its significance}

## Main Story
{Detailed coverage with facts, context, and analysis}

## Key Developments
{Important updates and recent developments}

## Impact & Analysis
{What this means for the community/region}

## Key Takeaways
- {Important point 1}
- {Important point 2}
- {Important point 3}

## Sources
- {Source 1 with attribution}
- {Source 2 with attribution}

---
Report compiled by AI News Team
Date: {current_date}`

const StructuredWriterInstructions = `Create a structured news report with clear categories and individual articles.
Use EXACTLY this format for each article:
1. **Article Title Here**
   Brief summary of the article (1-2 sentences)
   [Read more](full_url_here) (Source Name, Date)

Group articles under category headers like: ### Politics, ### Sports, ### Local News
Ensure each article has a clear title, summary, source, and URL.
Include publication date when available in format: Month Day, Year
Do not include any other text or formatting outside of this structure.`

const StructuredExpectedOutput = `### Politics
1. **Political News Title**
   Summary of the political news article in 1-2 sentences.
   [Read more](https://example.com/article1) (Source Name, May 22, 2025)

2. **Another Political News Title**
   Another summary of political news.
   [Read more](https://example.com/article2) (Another Source, May 21, 2025)

### Sports
1. **Sports News Title**
   Summary of the sports news article.
   [Read more](https://example.com/article3) (Sports Source, May 21, 2025)`

const EditorInstructions = `You are a senior news editor reviewing the work of your researcher and writer.
Review the draft for accuracy, completeness and journalistic quality against the sources and the assignment.
Fix factual inconsistencies, remove unsupported claims and tighten the prose.
Return only the final edited text, in exactly the same format as the draft, with no notes to the team.`

const StructuredEditorInstructions = `You are a senior news editor producing structured, parseable news content for UI consumption.
Review the draft for accuracy and proper formatting.
Each article must have: title, summary, source, URL, and date. Group articles by the requested categories.
Return only the final report in exactly the required format, with no other text.`

// Categories returns the category list a report should cover.
func Categories(req models.ReportRequest) []string {
	if len(req.Categories) > 0 {
		return req.Categories
	}
	if req.Mode == models.ModeStructured {
		return DefaultCategories
	}
	return nil
}

// Build builds the assignment handed to the editor team.
func Build(req models.ReportRequest) string {
	loc := req.Location
	focus := ""
	if len(req.Categories) > 0 {
		focus = " focusing on " + strings.Join(req.Categories, ", ")
	}

	var b strings.Builder
	if req.Mode == models.ModeStructured {
		fmt.Fprintf(&b, "Create a structured news report for %s%s.\n\n", loc.Name, focus)
		b.WriteString("Format Requirements:\n")
		b.WriteString("- Use category headers: ### Category Name\n")
		b.WriteString("- List articles as: 1. **Title** followed by summary and source\n")
		b.WriteString("- Include full URLs and source attribution\n")
		fmt.Fprintf(&b, "- Target %d articles total\n", req.MaxResults)
		fmt.Fprintf(&b, "- Focus on recent news within %gkm\n", loc.Radius)
		b.WriteString("- Use EXACTLY this format for each article:\n")
		b.WriteString("  1. **Article Title Here**\n")
		b.WriteString("     Brief summary of the article (1-2 sentences)\n")
		b.WriteString("     [Read more](full_url_here) (Source Name, Date)\n\n")
		fmt.Fprintf(&b, "Categories to include: %s\n", strings.Join(Categories(req), ", "))
	} else {
		fmt.Fprintf(&b, "Create a comprehensive news report for %s%s.\n\n", loc.Name, focus)
		b.WriteString("Requirements:\n")
		fmt.Fprintf(&b, "- Find the top %d most recent and relevant news articles\n", req.MaxResults)
		fmt.Fprintf(&b, "- Cover news within approximately %gkm of the area\n", loc.Radius)
		b.WriteString("- Focus on breaking news, major developments, and significant local events\n")
		b.WriteString("- Ensure all information is accurate and properly attributed\n")
		b.WriteString("- Create an engaging, professional news article suitable for publication\n\n")
	}
	fmt.Fprintf(&b, "Location: %s (Coordinates: %g, %g)\n", loc.Name, loc.Latitude, loc.Longitude)
	fmt.Fprintf(&b, "Search radius: %gkm\n", loc.Radius)
	fmt.Fprintf(&b, "Target articles: %d\n", req.MaxResults)
	return b.String()
}

// SearchSubject is the short topic the searcher expands into search terms.
func SearchSubject(req models.ReportRequest) string {
	subject := req.Location.Name + " news"
	if cats := Categories(req); len(cats) > 0 {
		subject += " (" + strings.Join(cats, ", ") + ")"
	}
	return subject
}
