// Package reshape restructures web-search answers into a summary
// followed by a fixed-size source list.
//
// Information Hiding:
// - Search-answer detection heuristics
// - Summary/source split and recombination format
package reshape

import (
	"fmt"
	"regexp"
	"strings"
)

// searchIndicators gate the reshaping: content mentioning none of
// these phrases is returned untouched.
var searchIndicators = []string{
	"search results",
	"found online",
	"according to",
	"sources:",
}

// sourceHeading splits the answer into summary and source sections.
// Bold markers around the heading are consumed so a reshaped answer
// splits cleanly when reshaped again.
var sourceHeading = regexp.MustCompile(`(?i)\*{0,2}(sources:|references:|from these sources:)\*{0,2}`)

// Reshape restructures a search-derived answer into a key-point summary
// and exactly five source lines. Content that does not look like a
// search answer, or has no recognizable source section, passes through
// unchanged. Already-reshaped content passes through unchanged as well,
// since its source section re-parses to the same five lines.
func Reshape(content string) string {
	lower := strings.ToLower(content)
	indicated := false
	for _, term := range searchIndicators {
		if strings.Contains(lower, term) {
			indicated = true
			break
		}
	}
	if !indicated {
		return content
	}

	loc := sourceHeading.FindStringIndex(content)
	if loc == nil {
		return content
	}

	summary := strings.TrimSpace(content[:loc[0]])
	sources := strings.TrimSpace(content[loc[1]:])

	return fmt.Sprintf("%s\n\n**Sources:**\n%s", formatKeyPoints(summary), FormatSources(sources))
}

// formatKeyPoints numbers substantial paragraphs under a findings
// header. Content that already carries markdown structure is kept.
func formatKeyPoints(summary string) string {
	if strings.Contains(summary, "**") || strings.HasPrefix(strings.TrimSpace(summary), "1.") {
		return summary
	}

	var paragraphs []string
	for _, line := range strings.Split(summary, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}

	if len(paragraphs) < 3 {
		return fmt.Sprintf("**Summary:**\n\n%s", summary)
	}

	var sb strings.Builder
	sb.WriteString("**Summary of Key Findings:**\n\n")
	n := 0
	for _, para := range paragraphs {
		if len(para) > 20 {
			n++
			sb.WriteString(fmt.Sprintf("%d. %s\n\n", n, para))
		}
	}
	return sb.String()
}
