package normalizer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResponse struct {
	content string
}

func (r runResponse) RawContent() string { return r.content }

type label string

func (l label) String() string { return string(l) }

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want Value
	}{
		{"plain string", "hello", Text("hello")},
		{"bytes", []byte("hello"), Text("hello")},
		{"content map", map[string]any{"content": "x"}, Nested{Field: "content", Inner: "x"}},
		{"output map", map[string]any{"output": "x"}, Nested{Field: "output", Inner: "x"}},
		{"string map", map[string]string{"text": "x"}, Nested{Field: "text", Inner: "x"}},
		{"run response", runResponse{content: "x"}, Nested{Field: "RawContent()", Inner: "x"}},
		{"map without text", map[string]any{"foo": 1}, Unknown{Type: "map without content field"}},
		{"number", 42, Unknown{Type: "int"}},
		{"stringer", label("news"), Unknown{Type: "normalizer.label"}},
		{"nil", nil, Unknown{Type: "nil"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.raw))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"trimmed string", "  1. **Story**  \n", "1. **Story**"},
		{"json object", `{"content": "from json"}`, "from json"},
		{"json raw message", json.RawMessage(`{"text": "raw"}`), "raw"},
		{
			"chat completion shape",
			map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": "deep"}}}},
			"deep",
		},
		{"run response", runResponse{content: "agent text"}, "agent text"},
		{
			"legacy wrapper",
			`TeamRunResponse(content="### Politics\n1. **Subway fares rise**\n   Say \"yes\".", content_type='str')`,
			"### Politics\n1. **Subway fares rise**\n   Say \"yes\".",
		},
		{
			"legacy wrapper single quotes",
			`TeamRunResponse(event='RunResponse', content='It\'s done')`,
			"It's done",
		},
		{"non json braces", "{not json}", "{not json}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFailures(t *testing.T) {
	cases := map[string]any{
		"empty string":    "",
		"whitespace":      " \n\t ",
		"nil":             nil,
		"unknown map":     map[string]any{"foo": "bar"},
		"empty content":   map[string]any{"content": ""},
		"empty choices":   map[string]any{"choices": []any{}},
		"unsupported":     3.14,
		"empty wrapper":   runResponse{},
		"stringer":        label("Story"),
		"json no content": `{"status": "ok"}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrExtraction))

			var extractionErr *ExtractionError
			assert.True(t, errors.As(err, &extractionErr))
		})
	}
}

func TestExtractDepthLimit(t *testing.T) {
	var raw any = "text"
	for i := 0; i < maxDepth+1; i++ {
		raw = map[string]any{"content": raw}
	}

	_, err := Extract(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested deeper")
}
