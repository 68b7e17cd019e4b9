package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the first complete JSON object or array in a model
// response. Code fences, preambles and trailing chatter are dropped. When no
// JSON value can be found the trimmed text is returned unchanged, so callers
// see the decode error.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	for offset := 0; offset < len(text); {
		i := strings.IndexAny(text[offset:], "{[")
		if i < 0 {
			break
		}
		start := offset + i

		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&raw); err == nil {
			return string(raw)
		}
		offset = start + 1
	}
	return text
}
