package normalizer

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

const (
	maxTitleRunes   = 200
	maxSummaryRunes = 400
	summarySentence = 2

	baseRelevance  = 0.7
	relevanceStep  = 0.05
	minRelevance   = 0.1
	keywordBoost   = 0.1
	fallbackSource = "Unknown"
	generalLabel   = "General"
)

var urgencyKeywords = []string{"breaking", "urgent", "major", "significant", "important", "latest"}

var (
	boldText    = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	mdLink      = regexp.MustCompile(`\[([^\]]*)\]\((https?://[^)\s]+)\)`)
	attribution = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)\)\s*\(([^()]+)\)`)
	bareURL     = regexp.MustCompile(`https?://[^\s<>"\])]+`)
	sourceLabel = regexp.MustCompile(`(?i)^[*_\s]*(?:source|sources|publisher)[*_]*\s*:[*_\s]*(.+)$`)
	metaLabel   = regexp.MustCompile(`(?i)^[*_\s]*(?:source|sources|publisher|published|date|relevance(?:\s+score)?|score|category|url|link)[*_]*\s*:`)
	scoreLabel  = regexp.MustCompile(`(?im)^[*_\s-]*(?:relevance(?:\s+score)?|score)[*_]*[ \t]*[:=][ \t]*(\d+(?:\.\d+)?)[ \t]*(%)?[*_ \t]*$`)
	emphasis    = regexp.MustCompile("\\*\\*|__|\\*|`")
	leadingMark = regexp.MustCompile(`^\s*(?:#{1,6}\s+|[-+•]\s+|\d{1,3}[.)]\s+)`)
	spaces      = regexp.MustCompile(`\s+`)
)

const months = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)`

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b` + months + `\.?\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+` + months + `\.?,?\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
}

var linkOnlyText = map[string]bool{
	"read more": true, "source": true, "link": true, "here": true, "more": true, "full story": true,
}

// stripMarkdown removes link syntax, emphasis and list or heading markers.
func stripMarkdown(s string) string {
	s = mdLink.ReplaceAllString(s, "$1")
	s = leadingMark.ReplaceAllString(s, "")
	s = emphasis.ReplaceAllString(s, "")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)[:limit-3]
	cut := string(r)
	if i := strings.LastIndex(cut, " "); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "..."
}

// parseTitle returns the title and any text following a bold title on the same line.
func parseTitle(line string) (title, rest string, truncated bool) {
	if loc := boldText.FindStringSubmatchIndex(line); loc != nil {
		start, end := loc[2], loc[3]
		if start < 0 {
			start, end = loc[4], loc[5]
		}
		title = stripMarkdown(line[start:end])
		rest = strings.Trim(line[loc[1]:], " -–—:|")
	} else {
		title = stripMarkdown(line)
	}
	clipped := truncateRunes(title, maxTitleRunes)
	return clipped, rest, clipped != title
}

// firstSentences keeps up to n sentences of s.
func firstSentences(s string, n int) string {
	runes := []rune(s)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		// Skip initials such as "U.S." or "J."
		if r == '.' && i > 0 && isUpper(runes[i-1]) && (i == 1 || runes[i-2] == '.' || runes[i-2] == ' ') {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(string(runes[:i+1]))
		}
	}
	return strings.TrimSpace(s)
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// summaryText joins body lines that are not links or labelled metadata.
func summaryText(rest string, body []string) string {
	var parts []string
	if rest != "" {
		parts = append(parts, rest)
	}
	for _, line := range body {
		if metaLabel.MatchString(line) {
			continue
		}
		line = attribution.ReplaceAllString(line, "")
		line = mdLink.ReplaceAllStringFunc(line, func(m string) string {
			text := mdLink.FindStringSubmatch(m)[1]
			if linkOnlyText[strings.ToLower(strings.TrimSpace(text))] {
				return ""
			}
			return text
		})
		line = bareURL.ReplaceAllString(line, "")
		line = stripMarkdown(line)
		if hasLetter(line) {
			parts = append(parts, line)
		}
	}
	joined := strings.Join(parts, " ")
	return truncateRunes(firstSentences(joined, summarySentence), maxSummaryRunes)
}

func findURL(lines []string) string {
	for _, line := range lines {
		if m := mdLink.FindStringSubmatch(line); m != nil {
			return m[2]
		}
	}
	for _, line := range lines {
		if m := bareURL.FindString(line); m != "" {
			return strings.TrimRight(m, ".,;:")
		}
	}
	return ""
}

// findSource returns the source name and any trailing text that may hold a date.
func findSource(lines []string, link string) (source, dateHint string) {
	for _, line := range lines {
		if m := attribution.FindStringSubmatch(line); m != nil {
			name, rest, _ := strings.Cut(m[2], ",")
			if name = strings.TrimSpace(name); name != "" {
				return name, rest
			}
		}
	}
	for _, line := range lines {
		if m := sourceLabel.FindStringSubmatch(line); m != nil {
			value := bareURL.ReplaceAllString(stripMarkdown(m[1]), "")
			name, rest, _ := strings.Cut(value, ",")
			if name = strings.Trim(name, " -|"); name != "" {
				return name, rest
			}
		}
	}
	if host := hostOf(link); host != "" {
		return host, ""
	}
	return fallbackSource, ""
}

func hostOf(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// findDate returns the first date-looking text that also parses as a date.
func findDate(candidates ...string) string {
	for _, text := range candidates {
		for _, re := range datePatterns {
			for _, m := range re.FindAllString(text, -1) {
				if _, err := dateparse.ParseAny(m); err == nil {
					return spaces.ReplaceAllString(m, " ")
				}
			}
		}
	}
	return ""
}

// relevance prefers an explicit score and otherwise decays with position.
func relevance(text, title, summary string, index int) float64 {
	if m := scoreLabel.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v <= 100 {
			if m[2] != "" || v > 1 {
				v /= 100
			}
			return round2(math.Min(math.Max(v, 0), 1))
		}
	}

	score := math.Max(minRelevance, baseRelevance-relevanceStep*float64(index))
	lower := strings.ToLower(title + " " + summary)
	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			score += keywordBoost
		}
	}
	return round2(math.Min(score, 1))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

type categoryMatcher struct {
	label string
	re    *regexp.Regexp
}

func newCategoryMatchers(categories []string) []categoryMatcher {
	var out []categoryMatcher
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		pattern := regexp.QuoteMeta(c)
		if isWordByte(c[0]) {
			pattern = `\b` + pattern
		}
		if isWordByte(c[len(c)-1]) {
			pattern += `\b`
		}
		out = append(out, categoryMatcher{label: c, re: regexp.MustCompile(`(?i)` + pattern)})
	}
	return out
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// categorize matches the section hint first, then the block text.
func categorize(matchers []categoryMatcher, hint, text string) string {
	for _, m := range matchers {
		if hint != "" && m.re.MatchString(hint) {
			return m.label
		}
	}
	for _, m := range matchers {
		if m.re.MatchString(text) {
			return m.label
		}
	}
	return generalLabel
}
