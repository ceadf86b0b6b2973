package ai

import (
	"strings"
)

const fence = "```"

// CleanJSON turns a model reply into the text of its JSON object. It removes
// surrounding whitespace, an opening fence with an optional language tag, a
// closing fence, and prose before the first '{' or after the last '}'.
// Input with no object is returned trimmed so the decoder reports the error.
func CleanJSON(input string) string {
	s := strings.TrimSpace(input)

	// A fence after the payload has started is a closing fence only.
	if i := strings.Index(s, fence); i >= 0 && !strings.Contains(s[:i], "{") {
		rest := s[i+len(fence):]
		// Drop the language tag: everything up to the end of the fence line,
		// as long as it does not already start the payload.
		if nl := strings.IndexAny(rest, "\r\n"); nl >= 0 && !strings.ContainsAny(rest[:nl], "{[") {
			rest = rest[nl+1:]
		} else if tag := leadingWord(rest); tag != "" {
			rest = rest[len(tag):]
		}
		if j := strings.LastIndex(rest, fence); j >= 0 {
			rest = rest[:j]
		}
		s = strings.TrimSpace(rest)
	}
	s = strings.TrimSuffix(s, fence)
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func leadingWord(s string) string {
	for i, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return s[:i]
		}
	}
	return s
}
