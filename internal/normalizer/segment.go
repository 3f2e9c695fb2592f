package normalizer

import (
	"regexp"
	"strings"
	"unicode"
)

// Block is one candidate article. Lines[0] carries the title text.
type Block struct {
	Hint  string
	Lines []string
}

// Strategy splits text into candidate blocks. A Strict strategy keeps only
// blocks that cite something: a link, a source or a date.
type Strategy struct {
	Name   string
	Split  func(lines []string) []Block
	Strict bool
}

var (
	numberedLine = regexp.MustCompile(`^\s*\d{1,3}[.)](?:\s+(.*))?$`)
	headingLine  = regexp.MustCompile(`^\s*#{1,6}\s+(.+?)\s*#*\s*$`)
	ruleLine     = regexp.MustCompile(`^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)
)

// Strategies are tried in this order; the first yielding a plausible block wins.
var Strategies = []Strategy{
	{Name: "numbered", Split: splitNumbered},
	{Name: "headings", Split: splitHeadings, Strict: true},
	{Name: "paragraphs", Split: splitParagraphs, Strict: true},
}

// Segment splits text with the first strategy that yields plausible blocks.
func Segment(text string) (string, []Block) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, s := range Strategies {
		var blocks []Block
		for _, b := range s.Split(lines) {
			if b.plausible() && (!s.Strict || b.cited()) {
				blocks = append(blocks, b)
			}
		}
		if len(blocks) > 0 {
			return s.Name, blocks
		}
	}
	return "", nil
}

func (b Block) plausible() bool {
	return len(b.Lines) > 0 && hasLetter(stripMarkdown(b.Lines[0]))
}

// cited reports whether the block carries article evidence. Prose such as a
// refusal or an executive summary has none.
func (b Block) cited() bool {
	for _, line := range b.Lines {
		if bareURL.MatchString(line) || attribution.MatchString(line) || sourceLabel.MatchString(line) {
			return true
		}
	}
	return findDate(strings.Join(b.Lines, "\n")) != ""
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func heading(line string) (string, bool) {
	m := headingLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return stripMarkdown(m[1]), true
}

// splitNumbered starts a block at every "1." or "1)" item. Headings update the hint.
func splitNumbered(lines []string) []Block {
	var (
		blocks  []Block
		current *Block
		hint    string
	)
	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	afterBlank := false
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		wasBlank := afterBlank
		afterBlank = blank

		if h, ok := heading(line); ok {
			flush()
			hint = h
			continue
		}
		if ruleLine.MatchString(line) {
			flush()
			continue
		}
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			flush()
			current = &Block{Hint: hint, Lines: []string{strings.TrimSpace(m[1])}}
			continue
		}
		if current == nil || blank {
			continue
		}
		// An unindented line after a blank one closes an item that already has
		// a body, unless it is the item's link or metadata.
		if wasBlank && len(current.Lines) > 1 && !startsIndented(line) && !itemTrailer(line) {
			flush()
			continue
		}
		if current.Lines[0] == "" {
			current.Lines[0] = strings.TrimSpace(line)
			continue
		}
		current.Lines = append(current.Lines, strings.TrimSpace(line))
	}
	flush()
	return blocks
}

func startsIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

func itemTrailer(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "[") || metaLabel.MatchString(line)
}

// splitHeadings makes one block per heading that has a body.
func splitHeadings(lines []string) []Block {
	var (
		blocks  []Block
		current *Block
	)
	flush := func() {
		if current != nil && len(current.Lines) > 1 {
			blocks = append(blocks, *current)
		}
		current = nil
	}

	for _, line := range lines {
		if h, ok := heading(line); ok {
			flush()
			current = &Block{Hint: h, Lines: []string{h}}
			continue
		}
		if ruleLine.MatchString(line) {
			flush()
			continue
		}
		if current == nil || strings.TrimSpace(line) == "" {
			continue
		}
		current.Lines = append(current.Lines, strings.TrimSpace(line))
	}
	flush()
	return blocks
}

// splitParagraphs separates on blank lines. Heading-only lines become the hint.
func splitParagraphs(lines []string) []Block {
	var (
		blocks  []Block
		current *Block
		hint    string
	)
	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
		}
		current = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || ruleLine.MatchString(line) {
			flush()
			continue
		}
		if h, ok := heading(line); ok {
			flush()
			hint = h
			continue
		}
		if current == nil {
			current = &Block{Hint: hint}
		}
		current.Lines = append(current.Lines, trimmed)
	}
	flush()
	return blocks
}
