// Package utils provides small string helpers shared by the cmd, config
// and storage packages.
package utils

import (
	"strconv"
	"strings"
)

// SplitAndTrim splits s by sep and trims whitespace from each part.
// Empty parts are omitted from the result.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// NormalizeName lowercases and trims a user-supplied keyword such as a
// shell, storage layout or data format name.
func NormalizeName(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// UniqueTags flattens comma-separated tag arguments into a list without
// blanks or duplicates, keeping first-seen order.
func UniqueTags(values []string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, tag := range SplitAndTrim(v, ",") {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation
// path, so "#/tasks/0/title" becomes "tasks[0].title".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + strconv.Itoa(idx) + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
