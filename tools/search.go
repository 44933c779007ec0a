// Web Search Tool.
//
// Information Hiding:
// - Search API endpoint and authentication
// - Result parsing and formatting

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SearchTool queries a JSON search API and returns formatted results
// with titles and links, suitable for source citation.
type SearchTool struct {
	BaseTool
	client      *http.Client
	endpoint    string
	apiKey      string
	maxResults  int
	timeoutSecs uint64
}

// NewSearchTool creates a web search tool against the given API endpoint.
func NewSearchTool(endpoint, apiKey string, timeoutSecs uint64) *SearchTool {
	return &SearchTool{
		client: &http.Client{
			Timeout: time.Duration(timeoutSecs) * time.Second,
		},
		endpoint:    endpoint,
		apiKey:      apiKey,
		maxResults:  5,
		timeoutSecs: timeoutSecs,
	}
}

// WithMaxResults overrides the number of results returned.
func (t *SearchTool) WithMaxResults(n int) *SearchTool {
	t.maxResults = n
	return t
}

// Metadata returns the tool metadata.
func (t *SearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        NameWebSearch,
		Description: "Search the web for current information. Returns titles, links and snippets for the top results.",
		Parameters: []ToolParameter{
			{Name: "query", ParamType: "string", Description: "The search query", Required: true},
		},
	}
}

type searchArgs struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Validate validates the arguments.
func (t *SearchTool) Validate(args json.RawMessage) error {
	var a searchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(a.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	return nil
}

// Execute performs the search.
func (t *SearchTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a searchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	if strings.TrimSpace(a.Query) == "" {
		return FailureResultf("query cannot be empty"), nil
	}

	reqBody, err := json.Marshal(map[string]interface{}{
		"q":     a.Query,
		"count": t.maxResults,
	})
	if err != nil {
		return FailureResult(fmt.Errorf("failed to encode request: %w", err)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(string(reqBody)))
	if err != nil {
		return FailureResult(fmt.Errorf("failed to create request: %w", err)), nil
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("X-API-Key", t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return FailureResultf("search timed out after %d seconds", t.timeoutSecs), nil
		}
		return FailureResult(fmt.Errorf("search request failed: %w", err)), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FailureResult(fmt.Errorf("failed to read response body: %w", err)), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailureResultf("search API error: %s\n\n%s", resp.Status, string(body)), nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return FailureResult(fmt.Errorf("failed to parse search response: %w", err)), nil
	}

	if len(parsed.Results) == 0 {
		return SuccessResult("No results found."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search results for %q:\n\n", a.Query))
	for i, r := range parsed.Results {
		if i >= t.maxResults {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, r.Title, r.URL))
		if r.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", r.Snippet))
		}
	}

	return SuccessResult(sb.String()), nil
}

// Verify SearchTool implements Tool
var _ Tool = (*SearchTool)(nil)
