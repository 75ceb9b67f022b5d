package biz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paperqa-io/paperqa/internal/model"
)

// ParseAnswer validates the raw model output against the answer schema.
// The output must be a JSON object with an "answer" string; "sources" must be
// an array of strings when present and defaults to empty. Duplicate sources
// are removed, preserving first occurrence order.
func ParseAnswer(raw string) (*model.AnswerResponse, error) {
	var payload struct {
		Answer  *string  `json:"answer"`
		Sources []string `json:"sources"`
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	if payload.Answer == nil {
		return nil, fmt.Errorf("%w: missing answer field", ErrSchemaValidation)
	}

	sources := make([]string, 0, len(payload.Sources))
	seen := make(map[string]struct{}, len(payload.Sources))
	for _, s := range payload.Sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		sources = append(sources, s)
	}

	return &model.AnswerResponse{
		Answer:  *payload.Answer,
		Sources: sources,
	}, nil
}
