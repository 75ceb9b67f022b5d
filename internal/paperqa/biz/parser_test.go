package biz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa-io/paperqa/internal/paperqa/biz"
)

func TestParseAnswerValid(t *testing.T) {
	raw := `{"answer": "The model uses attention.", "sources": ["attention.pdf", "bert.pdf"]}`

	resp, err := biz.ParseAnswer(raw)
	require.NoError(t, err)
	assert.Equal(t, "The model uses attention.", resp.Answer)
	assert.Equal(t, []string{"attention.pdf", "bert.pdf"}, resp.Sources)
}

func TestParseAnswerMissingSources(t *testing.T) {
	raw := `{"answer": "The model uses attention."}`

	resp, err := biz.ParseAnswer(raw)
	require.NoError(t, err)
	assert.Equal(t, "The model uses attention.", resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.NotNil(t, resp.Sources, "sources must serialize as [] rather than null")
}

func TestParseAnswerDeduplicatesSources(t *testing.T) {
	raw := `{"answer": "ok", "sources": ["a.pdf", "b.pdf", "a.pdf", "b.pdf"]}`

	resp, err := biz.ParseAnswer(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, resp.Sources)
}

func TestParseAnswerSurroundingWhitespace(t *testing.T) {
	raw := "\n  {\"answer\": \"ok\", \"sources\": []}  \n"

	resp, err := biz.ParseAnswer(raw)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Answer)
}

func TestParseAnswerInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the model uses attention"},
		{"empty string", ""},
		{"json array", `["answer"]`},
		{"missing answer", `{"sources": ["a.pdf"]}`},
		{"answer wrong type", `{"answer": 42, "sources": []}`},
		{"sources wrong type", `{"answer": "ok", "sources": "a.pdf"}`},
		{"source element wrong type", `{"answer": "ok", "sources": [1, 2]}`},
		{"truncated json", `{"answer": "ok", "sources": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := biz.ParseAnswer(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, biz.ErrSchemaValidation)
		})
	}
}
