package reshape

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// sourcePattern captures an optional title and a URL from list-ish
// source lines such as "1. [Title](https://...)" or "- https://...".
var sourcePattern = regexp.MustCompile(`(?i)(?:(?:\d+\.|-|\*)\s*)?(?:\[?([^\]]+)\]?)?\s*\(?(https?://[^\s)]+)\)?`)

// SourceCount is the fixed number of source lines in a reshaped answer.
const SourceCount = 5

// placeholderSource fills in when fewer than SourceCount distinct
// sources were cited.
const placeholderSource = "[Additional information not available]"

// SourceEntry is one cited source.
type SourceEntry struct {
	Title  string
	URL    string
	Domain string
}

// ParseSources extracts deduplicated sources from a source section.
// Duplicates (by URL) keep their first occurrence, and at most
// SourceCount entries are returned. A missing or too-short title is
// replaced by the URL's domain.
func ParseSources(text string) []SourceEntry {
	matches := sourcePattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool)
	var entries []SourceEntry
	for _, m := range matches {
		title, rawURL := strings.TrimSpace(m[1]), m[2]
		if seen[rawURL] {
			continue
		}
		seen[rawURL] = true

		domain := ""
		if parsed, err := url.Parse(rawURL); err == nil {
			domain = parsed.Hostname()
		}
		if len(title) < 3 {
			title = domain
		}

		entries = append(entries, SourceEntry{Title: title, URL: rawURL, Domain: domain})
		if len(entries) >= SourceCount {
			break
		}
	}
	return entries
}

// FormatSources renders a source section as exactly SourceCount
// numbered markdown lines, padding with placeholders when needed.
func FormatSources(text string) string {
	entries := ParseSources(text)

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, e.Title, e.URL))
	}
	for i := len(entries); i < SourceCount; i++ {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, placeholderSource))
	}
	return sb.String()
}
