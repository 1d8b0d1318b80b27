package utils

import (
	"regexp"
	"strings"
)

// NormalizeUsername trims surrounding whitespace from a username
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// DedupeUsernames trims and deduplicates a list of usernames, dropping
// blanks and preserving first-seen order
func DedupeUsernames(usernames []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, username := range usernames {
		username = NormalizeUsername(username)
		if username == "" || seen[username] {
			continue
		}
		seen[username] = true
		result = append(result, username)
	}
	return result
}

// CleanFileName removes invalid characters from filename
func CleanFileName(filename string) string {
	// Replace invalid characters with underscore
	reg := regexp.MustCompile(`[<>:"/\\|?*]`)
	cleaned := reg.ReplaceAllString(filename, "_")

	// Remove extra spaces and trim
	cleaned = strings.TrimSpace(cleaned)
	cleaned = regexp.MustCompile(`\s+`).ReplaceAllString(cleaned, "_")

	return cleaned
}
