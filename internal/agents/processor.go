package agents

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ContentProcessor cleans text pulled out of fetched pages before it is shown to the writer.
type ContentProcessor struct {
	inlineSpace *regexp.Regexp
	htmlTags    *regexp.Regexp
	boilerplate *regexp.Regexp
	sentenceEnd *regexp.Regexp
}

func NewContentProcessor() *ContentProcessor {
	return &ContentProcessor{
		inlineSpace: regexp.MustCompile(`[ \t\f\v\x{00A0}]+`),
		htmlTags:    regexp.MustCompile(`<[^>]*>`),
		boilerplate: regexp.MustCompile(`(?i)^(advertisement|subscribe( now)?|sign up for .*newsletter.*|share this article|read more:?|related:?)$`),
		sentenceEnd: regexp.MustCompile(`[.!?]+\s+`),
	}
}

// CleanContent strips markup and boilerplate lines and normalizes whitespace.
func (cp *ContentProcessor) CleanContent(content string) string {
	content = cp.htmlTags.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	lines := strings.Split(content, "\n")
	var cleaned []string
	emptyLines := 0

	for _, line := range lines {
		line = strings.TrimSpace(cp.inlineSpace.ReplaceAllString(line, " "))
		if cp.boilerplate.MatchString(line) {
			continue
		}
		if line == "" {
			emptyLines++
			if emptyLines <= 1 {
				cleaned = append(cleaned, "")
			}
		} else {
			emptyLines = 0
			cleaned = append(cleaned, line)
		}
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// Excerpt returns whole paragraphs from the start of content up to maxChars.
// A first paragraph longer than maxChars is cut at a sentence boundary.
func (cp *ContentProcessor) Excerpt(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}

	var b strings.Builder
	for _, paragraph := range strings.Split(content, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		if b.Len() > 0 && b.Len()+len(paragraph)+2 > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if len(paragraph) > maxChars {
			paragraph = cp.splitBySentences(paragraph, maxChars)
		}
		b.WriteString(paragraph)
	}
	return b.String()
}

// splitBySentences keeps leading sentences of text that fit in maxSize.
func (cp *ContentProcessor) splitBySentences(text string, maxSize int) string {
	var b strings.Builder
	prev := 0
	for _, loc := range cp.sentenceEnd.FindAllStringIndex(text, -1) {
		if loc[1] > maxSize {
			break
		}
		b.WriteString(text[prev:loc[1]])
		prev = loc[1]
	}
	if b.Len() == 0 {
		cut := text[:maxSize]
		for len(cut) > 0 && !utf8.ValidString(cut) {
			cut = cut[:len(cut)-1]
		}
		return cut
	}
	return strings.TrimSpace(b.String())
}
