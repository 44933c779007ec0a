package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/richinex/parley/llm"
)

// conversationStores returns each backend under test.
func conversationStores(t *testing.T) map[string]ConversationStorage {
	t.Helper()

	sqlite, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("NewSqliteInMemory failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]ConversationStorage{
		"memory": NewInMemoryStorage(),
		"sqlite": sqlite,
	}
}

func TestSaveAndLoad(t *testing.T) {
	for name, store := range conversationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			history := []llm.ChatMessage{
				llm.UserMessage("hello"),
				llm.AssistantMessage("hi there"),
			}

			if err := store.Save(ctx, "thread-1", history); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := store.Load(ctx, "thread-1")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(loaded) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(loaded))
			}
			if loaded[0].Role != "user" || loaded[0].Content != "hello" {
				t.Errorf("unexpected first message: %+v", loaded[0])
			}
			if loaded[1].Role != "assistant" || loaded[1].Content != "hi there" {
				t.Errorf("unexpected second message: %+v", loaded[1])
			}
		})
	}
}

func TestLoadMissingThread(t *testing.T) {
	for name, store := range conversationStores(t) {
		t.Run(name, func(t *testing.T) {
			loaded, err := store.Load(context.Background(), "no-such-thread")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded == nil {
				t.Error("expected empty slice, got nil")
			}
			if len(loaded) != 0 {
				t.Errorf("expected empty history, got %d messages", len(loaded))
			}
		})
	}
}

func TestAppendCreatesAndExtends(t *testing.T) {
	for name, store := range conversationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, "thread-2", llm.UserMessage("first")); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
			if err := store.Append(ctx, "thread-2",
				llm.AssistantMessage("second"),
				llm.UserMessage("third"),
			); err != nil {
				t.Fatalf("Append failed: %v", err)
			}

			loaded, err := store.Load(ctx, "thread-2")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(loaded) != 3 {
				t.Fatalf("expected 3 messages, got %d", len(loaded))
			}
			if loaded[2].Content != "third" {
				t.Errorf("messages out of order: %+v", loaded)
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	for name, store := range conversationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Save(ctx, "thread-3", []llm.ChatMessage{
				llm.UserMessage("old"),
			}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if err := store.Save(ctx, "thread-3", []llm.ChatMessage{
				llm.UserMessage("new"),
				llm.AssistantMessage("reply"),
			}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := store.Load(ctx, "thread-3")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(loaded) != 2 || loaded[0].Content != "new" {
				t.Errorf("expected overwritten history, got %+v", loaded)
			}
		})
	}
}

func TestDeleteAndExists(t *testing.T) {
	for name, store := range conversationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Save(ctx, "thread-4", []llm.ChatMessage{llm.UserMessage("x")}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			exists, err := store.Exists(ctx, "thread-4")
			if err != nil {
				t.Fatalf("Exists failed: %v", err)
			}
			if !exists {
				t.Error("expected thread to exist")
			}

			if err := store.Delete(ctx, "thread-4"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}

			exists, err = store.Exists(ctx, "thread-4")
			if err != nil {
				t.Fatalf("Exists failed: %v", err)
			}
			if exists {
				t.Error("expected thread to be deleted")
			}

			loaded, err := store.Load(ctx, "thread-4")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(loaded) != 0 {
				t.Errorf("expected empty history after delete, got %d messages", len(loaded))
			}
		})
	}
}

func TestListThreads(t *testing.T) {
	for name, store := range conversationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, id := range []string{"a", "b"} {
				if err := store.Save(ctx, id, []llm.ChatMessage{llm.UserMessage("hi")}); err != nil {
					t.Fatalf("Save failed: %v", err)
				}
			}

			threads, err := store.ListThreads(ctx)
			if err != nil {
				t.Fatalf("ListThreads failed: %v", err)
			}
			if len(threads) != 2 {
				t.Errorf("expected 2 threads, got %d", len(threads))
			}
		})
	}
}

func TestImagesRoundTrip(t *testing.T) {
	for name, store := range conversationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			msg := llm.UserMessage("look at this")
			msg.Images = []string{"https://example.com/a.png", "data:image/png;base64,aGk="}

			if err := store.Save(ctx, "thread-img", []llm.ChatMessage{msg}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := store.Load(ctx, "thread-img")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(loaded) != 1 {
				t.Fatalf("expected 1 message, got %d", len(loaded))
			}
			if len(loaded[0].Images) != 2 {
				t.Fatalf("expected 2 images, got %d", len(loaded[0].Images))
			}
			if loaded[0].Images[0] != "https://example.com/a.png" {
				t.Errorf("unexpected image URL: %s", loaded[0].Images[0])
			}
		})
	}
}

func TestOpenSqliteCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "parley.db")
	store, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("OpenSqlite failed: %v", err)
	}
	defer store.Close()

	if err := store.Save(context.Background(), "t", []llm.ChatMessage{llm.UserMessage("hi")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}
