package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TagSeparator joins tags in the backend wire format.
const TagSeparator = ","

// ParseTags splits a comma-delimited tag string into a clean list.
// Full-width commas are folded to ASCII by NFKC before splitting.
func ParseTags(s string) []string {
	s = norm.NFKC.String(s)
	return CleanTags(strings.Split(s, TagSeparator))
}

// CleanTags trims each tag, drops empties and duplicates, and keeps order.
// The result is never nil.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// JoinTags renders tags in the backend wire format.
func JoinTags(tags []string) string {
	return strings.Join(CleanTags(tags), TagSeparator)
}
