package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrExtraction is matched by every ExtractionError.
var ErrExtraction = errors.New("no text content in agent output")

// ExtractionError reports raw output that holds no usable text.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%v: %s", ErrExtraction, e.Reason)
}

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

// Value is the decoded shape of one layer of raw agent output.
// It is one of Text, Nested or Unknown.
type Value interface {
	value()
}

// Text is a plain textual payload.
type Text string

// Nested is a container whose payload sits under Field.
type Nested struct {
	Field string
	Inner any
}

// Unknown is a shape that carries no recognisable text.
type Unknown struct {
	Type string
}

func (Text) value()    {}
func (Nested) value()  {}
func (Unknown) value() {}

// rawContenter is implemented by pipeline responses.
type rawContenter interface {
	RawContent() string
}

// Container fields in lookup order.
var containerFields = []string{"content", "text", "output", "message", "choices"}

// maxDepth bounds how many container layers Extract will unwrap.
const maxDepth = 8

var legacyWrapper = regexp.MustCompile(`^\s*TeamRunResponse\(.*?\bcontent\s*=\s*(['"])`)

// Decode classifies one layer of raw output without unwrapping it.
func Decode(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Unknown{Type: "nil"}
	case string:
		return decodeString(v)
	case []byte:
		return decodeString(string(v))
	case json.RawMessage:
		return decodeString(string(v))
	case rawContenter:
		return Nested{Field: "RawContent()", Inner: v.RawContent()}
	case map[string]any:
		return decodeMap(v)
	case map[string]string:
		for _, field := range containerFields {
			if inner, ok := v[field]; ok {
				return Nested{Field: field, Inner: inner}
			}
		}
		return Unknown{Type: "map without content field"}
	default:
		return Unknown{Type: fmt.Sprintf("%T", raw)}
	}
}

func decodeString(s string) Value {
	if m := legacyWrapper.FindStringSubmatchIndex(s); m != nil {
		quote := s[m[2]]
		if content, ok := unquoteRepr(s[m[3]:], quote); ok {
			return Nested{Field: "content", Inner: content}
		}
	}

	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return Nested{Field: "json", Inner: obj}
		}
	}
	return Text(s)
}

func decodeMap(m map[string]any) Value {
	for _, field := range containerFields {
		inner, ok := m[field]
		if !ok || inner == nil {
			continue
		}
		if field == "choices" {
			choices, ok := inner.([]any)
			if !ok || len(choices) == 0 {
				continue
			}
			return Nested{Field: "choices[0]", Inner: choices[0]}
		}
		return Nested{Field: field, Inner: inner}
	}
	return Unknown{Type: "map without content field"}
}

// unquoteRepr reads a quoted literal body up to the closing quote,
// resolving backslash escapes.
func unquoteRepr(s string, quote byte) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quote:
			return b.String(), true
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", false
}

// Extract unwraps raw agent output until it reaches text.
func Extract(raw any) (string, error) {
	current := raw
	for depth := 0; depth < maxDepth; depth++ {
		switch v := Decode(current).(type) {
		case Text:
			text := strings.TrimSpace(string(v))
			if text == "" {
				return "", &ExtractionError{Reason: "empty content"}
			}
			return text, nil
		case Nested:
			current = v.Inner
		case Unknown:
			return "", &ExtractionError{Reason: "unsupported output shape " + v.Type}
		}
	}
	return "", &ExtractionError{Reason: fmt.Sprintf("nested deeper than %d levels", maxDepth)}
}
