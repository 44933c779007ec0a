// Package history reconciles conversation history between a remote
// persisted log and a local store.
//
// Information Hiding:
// - Remote API endpoint layout and response format
// - Fallback policy between remote and local history
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/richinex/parley/llm"
)

// RemoteLog fetches persisted conversation history over HTTP.
type RemoteLog struct {
	client  *http.Client
	baseURL string
}

// NewRemoteLog creates a remote history client for the given base URL,
// e.g. "http://localhost:8000".
func NewRemoteLog(baseURL string) *RemoteLog {
	return &RemoteLog{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

type remoteConversation struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// Fetch retrieves the persisted history for a thread.
// Roles other than user/assistant are dropped.
func (r *RemoteLog) Fetch(ctx context.Context, threadID string) ([]llm.ChatMessage, error) {
	endpoint := fmt.Sprintf("%s/api/conversations/%s", r.baseURL, threadID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("conversation API returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var conv remoteConversation
	if err := json.Unmarshal(body, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation: %w", err)
	}

	var messages []llm.ChatMessage
	for _, m := range conv.Messages {
		switch m.Role {
		case "user":
			messages = append(messages, llm.UserMessage(m.Content))
		case "assistant":
			messages = append(messages, llm.AssistantMessage(m.Content))
		}
	}
	return messages, nil
}
