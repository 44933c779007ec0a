package history

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/richinex/parley/llm"
	"github.com/richinex/parley/storage"
)

func TestRemoteLogFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/conversations/thread-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"messages": [
			{"role": "user", "content": "hello"},
			{"role": "assistant", "content": "hi"},
			{"role": "system", "content": "ignored"}
		]}`)
	}))
	defer server.Close()

	remote := NewRemoteLog(server.URL)
	messages, err := remote.Fetch(context.Background(), "thread-1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Role != "assistant" {
		t.Errorf("unexpected second message: %+v", messages[1])
	}
}

func TestRemoteLogFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	remote := NewRemoteLog(server.URL)
	if _, err := remote.Fetch(context.Background(), "missing"); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestResolvePrefersRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"messages": [{"role": "user", "content": "from remote"}]}`)
	}))
	defer server.Close()

	local := storage.NewInMemoryStorage()
	if err := local.Save(context.Background(), "t", []llm.ChatMessage{
		llm.UserMessage("from local"),
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reconciler := NewReconciler(NewRemoteLog(server.URL), local)
	history, err := reconciler.Resolve(context.Background(), "t")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "from remote" {
		t.Errorf("expected remote history to win, got %+v", history)
	}
}

func TestResolveFallsBackOnRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	local := storage.NewInMemoryStorage()
	if err := local.Save(context.Background(), "t", []llm.ChatMessage{
		llm.UserMessage("from local"),
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reconciler := NewReconciler(NewRemoteLog(server.URL), local)
	history, err := reconciler.Resolve(context.Background(), "t")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "from local" {
		t.Errorf("expected local fallback, got %+v", history)
	}
}

func TestResolveFallsBackOnEmptyRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"messages": []}`)
	}))
	defer server.Close()

	local := storage.NewInMemoryStorage()
	if err := local.Save(context.Background(), "t", []llm.ChatMessage{
		llm.UserMessage("cached"),
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reconciler := NewReconciler(NewRemoteLog(server.URL), local)
	history, err := reconciler.Resolve(context.Background(), "t")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "cached" {
		t.Errorf("expected local fallback on empty remote, got %+v", history)
	}
}

func TestResolveEmptyThreadID(t *testing.T) {
	reconciler := NewReconciler(nil, storage.NewInMemoryStorage())
	history, err := reconciler.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d messages", len(history))
	}
}

func TestRecordWritesThrough(t *testing.T) {
	local := storage.NewInMemoryStorage()
	reconciler := NewReconciler(nil, local)

	ctx := context.Background()
	reconciler.Record(ctx, "t", llm.UserMessage("q"), llm.AssistantMessage("a"))

	history, err := local.Load(ctx, "t")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 recorded messages, got %d", len(history))
	}
	if history[1].Role != "assistant" || history[1].Content != "a" {
		t.Errorf("unexpected recorded message: %+v", history[1])
	}
}
