package utils

import (
	"regexp"
	"strings"
)

var handleRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidHandle reports whether handle contains only letters, digits and
// underscores.
func ValidHandle(handle string) bool {
	return handleRegex.MatchString(handle)
}

// LoginIDForHandle derives the credential login identifier from a handle.
// The mapping is deterministic: the same handle always resolves to the same
// login identifier, regardless of how the handle was cased.
func LoginIDForHandle(handle, domain string) string {
	return strings.ToLower(handle) + "@" + domain
}

// ParseTags splits a comma-separated tag string into trimmed, non-empty,
// deduplicated tags, preserving first-seen order.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
