// Package storage provides conversation storage abstraction.
//
// Information Hiding:
// - Storage backend implementation details hidden behind interface
// - Allows swapping between memory and SQLite without API changes
// - Each storage implementation encapsulates its own data structures and protocols

package storage

import (
	"context"

	"github.com/richinex/parley/llm"
)

// ConversationStorage defines the interface for storing per-thread
// conversation history.
// Implementations can use different backends (memory, database, cache).
type ConversationStorage interface {
	// Save replaces the conversation history for a thread.
	Save(ctx context.Context, threadID string, history []llm.ChatMessage) error

	// Append appends messages to a thread's history, creating the
	// thread if it does not exist.
	Append(ctx context.Context, threadID string, messages ...llm.ChatMessage) error

	// Load loads conversation history for a thread.
	// Returns empty slice (not nil) if thread doesn't exist.
	// Returns error only for storage failures (I/O errors, etc.), not missing threads.
	Load(ctx context.Context, threadID string) ([]llm.ChatMessage, error)

	// Delete deletes conversation history for a thread.
	Delete(ctx context.Context, threadID string) error

	// ListThreads lists all thread IDs.
	ListThreads(ctx context.Context) ([]string, error)

	// Exists checks if a thread exists.
	Exists(ctx context.Context, threadID string) (bool, error)
}
