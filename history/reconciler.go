package history

import (
	"context"
	"fmt"
	"os"

	"github.com/richinex/parley/llm"
	"github.com/richinex/parley/storage"
)

// Reconciler resolves the working history for a thread.
//
// The remote persisted log is authoritative: when it yields a non-empty
// history, that history is used. When the remote fetch fails or comes
// back empty, the local store serves as fallback. New turns are always
// written through to the local store so the fallback stays current.
type Reconciler struct {
	remote *RemoteLog
	local  storage.ConversationStorage
}

// NewReconciler creates a reconciler. The remote log may be nil, in
// which case only the local store is consulted.
func NewReconciler(remote *RemoteLog, local storage.ConversationStorage) *Reconciler {
	return &Reconciler{remote: remote, local: local}
}

// Resolve returns the working history for a thread.
// An empty thread ID yields an empty history.
func (r *Reconciler) Resolve(ctx context.Context, threadID string) ([]llm.ChatMessage, error) {
	if threadID == "" {
		return []llm.ChatMessage{}, nil
	}

	if r.remote != nil {
		remote, err := r.remote.Fetch(ctx, threadID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to retrieve thread history: %v\n", err)
		} else if len(remote) > 0 {
			return remote, nil
		}
	}

	return r.local.Load(ctx, threadID)
}

// Record appends completed turns to the local store.
// Failures are reported but do not fail the dialogue turn.
func (r *Reconciler) Record(ctx context.Context, threadID string, messages ...llm.ChatMessage) {
	if threadID == "" {
		return
	}
	if err := r.local.Append(ctx, threadID, messages...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record conversation turn: %v\n", err)
	}
}

// Local exposes the underlying local store, used when routing needs to
// scan cached history directly.
func (r *Reconciler) Local() storage.ConversationStorage {
	return r.local
}
