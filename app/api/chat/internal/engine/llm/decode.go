package llm

import (
	"encoding/json"
	"strings"
)

// Decode parses model output as JSON leniently: first the raw text, then the
// outermost {...} block if the model wrapped the payload in prose or fences.
// It reports failure instead of erroring; callers treat false as a degradable
// miss and continue on their fallback path.
func Decode[T any](raw string) (T, bool) {
	var out T

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return out, false
	}

	if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
		return out, true
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || start > end {
		return out, false
	}

	var block T
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &block); err != nil {
		return out, false
	}
	return block, true
}
