package textutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa-io/paperqa/internal/pkg/textutil"
)

func TestSplitIntoChunks(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		expected  []string
	}{
		{
			name:      "text shorter than chunk size",
			text:      "short text",
			chunkSize: 100,
			overlap:   20,
			expected:  []string{"short text"},
		},
		{
			name:      "text equal to chunk size",
			text:      "abcde",
			chunkSize: 5,
			overlap:   2,
			expected:  []string{"abcde"},
		},
		{
			name:      "simple split with overlap",
			text:      "abcdefghij",
			chunkSize: 5,
			overlap:   2,
			expected:  []string{"abcde", "defgh", "ghij"},
		},
		{
			name:      "zero overlap",
			text:      "abcdefghij",
			chunkSize: 5,
			overlap:   0,
			expected:  []string{"abcde", "fghij"},
		},
		{
			name:      "empty text",
			text:      "",
			chunkSize: 5,
			overlap:   2,
			expected:  nil,
		},
		{
			name:      "invalid chunk size",
			text:      "abcdef",
			chunkSize: 0,
			overlap:   2,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := textutil.SplitIntoChunks(tt.text, tt.chunkSize, tt.overlap)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Consecutive chunks must share exactly overlap characters: the suffix of
// chunk[i] equals the prefix of chunk[i+1].
func TestSplitIntoChunksOverlapProperty(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 80)
	chunkSize := 1000
	overlap := 200

	chunks := textutil.SplitIntoChunks(text, chunkSize, overlap)
	require.Greater(t, len(chunks), 1)

	for i := 0; i < len(chunks)-1; i++ {
		cur := []rune(chunks[i])
		next := []rune(chunks[i+1])
		require.Len(t, cur, chunkSize)
		suffix := string(cur[len(cur)-overlap:])
		prefix := string(next[:overlap])
		assert.Equal(t, suffix, prefix, "chunk %d suffix must equal chunk %d prefix", i, i+1)
	}
}

func TestSplitIntoChunksCoversAllText(t *testing.T) {
	text := strings.Repeat("abcdefghij", 137)
	chunkSize := 100
	overlap := 30

	chunks := textutil.SplitIntoChunks(text, chunkSize, overlap)
	require.NotEmpty(t, chunks)

	// Reassembling with the overlap stripped must reproduce the input.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		runes := []rune(c)
		rebuilt.WriteString(string(runes[overlap:]))
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplitIntoChunksMultibyte(t *testing.T) {
	text := strings.Repeat("机器学习是人工智能的分支", 30)
	chunks := textutil.SplitIntoChunks(text, 50, 10)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		assert.Len(t, []rune(c), 50)
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", textutil.TruncateString("abc", 10))
	assert.Equal(t, "abc", textutil.TruncateString("abcdef", 3))
	assert.Equal(t, "机器学", textutil.TruncateString("机器学习", 3))
	assert.Equal(t, "", textutil.TruncateString("", 5))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", textutil.NormalizeWhitespace("  a\n\tb   c  "))
	assert.Equal(t, "", textutil.NormalizeWhitespace("   \n\t "))
}
