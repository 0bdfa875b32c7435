package provider

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// DumpLimit caps the raw fallback returned when no known field matches.
const DumpLimit = 500

// Extract returns the answer text from a backend JSON payload. It probes, in
// order: response, text, output, message.content, choices[0].message.content,
// choices[0].text and candidates[0].content.parts[0].text. The first
// non-empty string wins. When nothing matches the payload itself is returned,
// truncated to DumpLimit runes.
func Extract(raw []byte) string {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Truncate(strings.TrimSpace(string(raw)), DumpLimit)
	}
	for _, path := range probes {
		if s, ok := lookup(doc, path...); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	compact, err := json.Marshal(doc)
	if err != nil {
		compact = raw
	}
	return Truncate(string(compact), DumpLimit)
}

var probes = [][]any{
	{"response"},
	{"text"},
	{"output"},
	{"message", "content"},
	{"choices", 0, "message", "content"},
	{"choices", 0, "text"},
	{"candidates", 0, "content", "parts", 0, "text"},
}

// lookup walks doc along path. String steps index objects, int steps index
// arrays. It reports false unless the final value is a string.
func lookup(doc any, path ...any) (string, bool) {
	cur := doc
	for _, step := range path {
		switch k := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return "", false
			}
			if cur, ok = m[k]; !ok {
				return "", false
			}
		case int:
			arr, ok := cur.([]any)
			if !ok || k >= len(arr) {
				return "", false
			}
			cur = arr[k]
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// Truncate returns at most n runes of s, appending "..." when it cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}
