// Package dialogue orchestrates conversational turns: routing, prompt
// assembly, the agent loop and answer post-processing.
//
// Information Hiding:
// - Direct-action shortcut patterns and their precedence
// - Entity fallback policy (query first, cached history second)
package dialogue

import (
	"regexp"
	"strings"

	"github.com/richinex/parley/extract"
	"github.com/richinex/parley/llm"
)

// Route identifies how a query should be handled.
type Route int

const (
	// RouteAgent sends the query through the full agent loop.
	RouteAgent Route = iota
	// RouteImage generates an image directly, bypassing the agent.
	RouteImage
	// RouteSMS sends an SMS directly, bypassing the agent.
	RouteSMS
	// RouteCall places a call directly, bypassing the agent.
	RouteCall
)

// Decision is a routing outcome with the entities the route needs.
type Decision struct {
	Route            Route
	ImageDescription string
	Phone            string
	Message          string
}

// Direct-action shortcut patterns, checked against the lowercased query.
var (
	imageRequestPattern = regexp.MustCompile(`(generate|create|make|draw) .*image of`)
	smsRequestPattern   = regexp.MustCompile(`(send|text|sms) .*(message|sms|text)`)
	callRequestPattern  = regexp.MustCompile(`(call|phone|ring) .*`)
)

// HistoryLoader supplies the cached thread history on demand, so the
// store is only read when routing actually needs it.
type HistoryLoader func() []llm.ChatMessage

// Classify routes a query. Shortcuts are tried in order: image
// generation, SMS, call; anything else goes to the agent. A shortcut
// whose required entities cannot be resolved falls through to the next
// check rather than failing.
//
// loadHistory is invoked at most once, and only when a query matching
// the SMS or call pattern carries no phone number itself; the most
// recent number in the loaded history wins. A nil loader means no
// history is available.
func Classify(query string, loadHistory HistoryLoader) Decision {
	lower := strings.ToLower(query)
	load := memoize(loadHistory)

	if imageRequestPattern.MatchString(lower) {
		if description, ok := extract.ImageDescription(query); ok && description != "" {
			return Decision{Route: RouteImage, ImageDescription: description}
		}
	}

	if smsRequestPattern.MatchString(lower) {
		if phone, ok := resolvePhone(query, load); ok {
			return Decision{
				Route:   RouteSMS,
				Phone:   phone,
				Message: extract.Message(query),
			}
		}
	}

	if callRequestPattern.MatchString(lower) {
		if phone, ok := resolvePhone(query, load); ok {
			return Decision{
				Route:   RouteCall,
				Phone:   phone,
				Message: extract.Message(query),
			}
		}
	}

	return Decision{Route: RouteAgent}
}

// memoize caches the loader result so fall-through from the SMS check
// to the call check does not hit the store twice.
func memoize(load HistoryLoader) HistoryLoader {
	var cached []llm.ChatMessage
	loaded := false
	return func() []llm.ChatMessage {
		if load == nil {
			return nil
		}
		if !loaded {
			cached = load()
			loaded = true
		}
		return cached
	}
}

// resolvePhone takes the first phone number in the query, falling back
// to the last one mentioned anywhere in cached history.
func resolvePhone(query string, loadHistory HistoryLoader) (string, bool) {
	if phone, ok := extract.Phone(query); ok {
		return phone, true
	}

	phone, found := "", false
	for _, msg := range loadHistory() {
		if msg.Content == "" {
			continue
		}
		if p, ok := extract.LastPhone(msg.Content); ok {
			phone, found = p, true
		}
	}
	return phone, found
}
