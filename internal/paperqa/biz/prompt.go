package biz

import (
	"fmt"
	"strings"

	"github.com/paperqa-io/paperqa/internal/paperqa/store"
)

// FallbackAnswer is the exact sentence the model is instructed to return when
// the retrieved context cannot answer the question.
const FallbackAnswer = "Based on the provided documents, I cannot answer this question."

// systemInstruction constrains the model to the retrieved context and to a
// strict two-key JSON output.
const systemInstruction = `You are an assistant that answers questions about academic papers. ` +
	`Answer using ONLY the information in the provided context. ` +
	`If the context does not contain the information needed to answer, reply with exactly: ` +
	`"` + FallbackAnswer + `" ` +
	`Respond with a single JSON object containing exactly two keys: ` +
	`"answer" (a string with your answer) and ` +
	`"sources" (an array with the names of the source documents you actually used, without duplicates). ` +
	`Do not output anything outside the JSON object.`

// BuildPrompt assembles the generation prompt from the retrieved chunks and
// the question. The output is deterministic: identical inputs in identical
// order produce an identical prompt.
func BuildPrompt(results []*store.SearchResult, question string) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Source Document: %s\nContent: %s", r.Chunk.SourceDocument, r.Chunk.Text))
	}

	return fmt.Sprintf("CONTEXT:\n%s\n\nQUESTION:\n%s", strings.Join(blocks, "\n\n"), question)
}
