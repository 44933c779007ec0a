// Package extract pulls structured entities out of free-form user text.
//
// Information Hiding:
// - Entity patterns and their precedence rules
// - Fallback defaults for missing entities
package extract

import (
	"regexp"
	"strings"
)

// phonePattern matches loosely formatted phone numbers: an optional
// leading plus followed by at least ten digits, spaces, dashes or
// parentheses.
var phonePattern = regexp.MustCompile(`\+?[\d\s\-()]{10,}`)

// quotedPattern captures double-quoted message content.
var quotedPattern = regexp.MustCompile(`"([^"]*)"`)

// sayPattern captures content after "say" or "saying", stopping at a
// trailing "to <recipient>" clause or end of input.
var sayPattern = regexp.MustCompile(`say(?:ing)?\s+(.+?)(?:$|\s+to\s+)`)

// imageOfMarker locates the start of an image description.
const imageOfMarker = "image of"

// trailingPunct strips a single terminal punctuation mark.
var trailingPunct = regexp.MustCompile(`[.!?]$`)

// DefaultMessage is used when no message content can be extracted.
const DefaultMessage = "Hello!"

// Phone returns the first phone-number-like token in text.
func Phone(text string) (string, bool) {
	match := phonePattern.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.TrimSpace(match), true
}

// LastPhone returns the last phone-number-like token in text.
// Used when scanning history, where the most recent number wins.
func LastPhone(text string) (string, bool) {
	matches := phonePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	return strings.TrimSpace(matches[len(matches)-1]), true
}

// Message extracts message content from a query.
// Precedence: first double-quoted span, then content after
// "say"/"saying" (lowercased), then DefaultMessage.
func Message(query string) string {
	if m := quotedPattern.FindStringSubmatch(query); m != nil {
		return m[1]
	}
	if m := sayPattern.FindStringSubmatch(strings.ToLower(query)); m != nil {
		return m[1]
	}
	return DefaultMessage
}

// ImageDescription returns the text following "image of", with
// surrounding whitespace and a single trailing punctuation mark
// removed. Returns false when the marker is absent.
func ImageDescription(query string) (string, bool) {
	idx := strings.Index(strings.ToLower(query), imageOfMarker)
	if idx < 0 {
		return "", false
	}
	description := strings.TrimSpace(query[idx+len(imageOfMarker):])
	description = trailingPunct.ReplaceAllString(description, "")
	return description, true
}
