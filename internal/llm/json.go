package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON decodes a model response into v. Models frequently wrap JSON
// in markdown fences or lead with prose, so the payload is located by the
// outermost braces before decoding. Failures wrap ErrBadResponse.
func DecodeJSON(response string, v any) error {
	payload := extractJSONPayload(response)
	if payload == "" {
		return fmt.Errorf("%w: no JSON object found", ErrBadResponse)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func extractJSONPayload(response string) string {
	s := strings.TrimSpace(response)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return ""
	}
	return s[start : end+1]
}
