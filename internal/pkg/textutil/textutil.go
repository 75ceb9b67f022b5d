// Package textutil provides text processing helpers for the ingestion pipeline.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// TruncateString truncates s to at most maxLen Unicode characters.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}

// SplitIntoChunks splits text into overlapping chunks.
// chunkSize is the size of each chunk in Unicode characters, overlap is the
// number of characters shared between consecutive chunks.
func SplitIntoChunks(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	step := chunkSize - overlap

	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[i:end])
		chunks = append(chunks, chunk)
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// NormalizeWhitespace collapses runs of whitespace into single spaces and
// trims the result. PDF text extraction tends to produce ragged spacing.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
