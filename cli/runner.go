// Package cli wires configuration, providers, tools and storage into
// runnable commands.
//
// Information Hiding:
// - Provider and tool construction from settings
// - Session/thread lifecycle for one-shot and interactive use

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/richinex/parley/config"
	"github.com/richinex/parley/dialogue"
	"github.com/richinex/parley/history"
	"github.com/richinex/parley/llm"
	"github.com/richinex/parley/storage"
	"github.com/richinex/parley/tools"
)

// Options carries command-line options shared across commands.
type Options struct {
	Provider      string
	Mode          string
	MaxIterations int
	Verbose       bool
}

// createProvider builds an LLM provider from settings and environment.
// Model, token limit and temperature all come from settings so the
// LLM_* environment variables take effect.
func createProvider(settings config.Settings) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	return providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		FromEnv()
}

// buildRegistry registers every tool whose configuration is present.
// Missing configuration skips the tool with a warning rather than
// failing the whole command.
func buildRegistry(settings config.Settings) *tools.Registry {
	registry := tools.NewRegistry()

	if settings.Search.Endpoint != "" {
		_ = registry.Register(tools.NewSearchTool(
			settings.Search.Endpoint,
			settings.Search.APIKey,
			tools.DefaultToolTimeout,
		))
	} else {
		fmt.Fprintf(os.Stderr, "Warning: SEARCH_API_ENDPOINT not set, web search disabled\n")
	}

	if settings.Telephony.AccountSID != "" {
		telephony := tools.TelephonyConfig{
			AccountSID: settings.Telephony.AccountSID,
			AuthToken:  settings.Telephony.AuthToken,
			FromNumber: settings.Telephony.FromNumber,
		}
		_ = registry.Register(tools.NewSMSTool(telephony))
		_ = registry.Register(tools.NewCallTool(telephony))
	} else {
		fmt.Fprintf(os.Stderr, "Warning: TWILIO_ACCOUNT_SID not set, SMS and calls disabled\n")
	}

	if apiKey, err := config.APIKeyFor("openai"); err == nil {
		_ = registry.Register(tools.NewImageTool(apiKey))
	} else {
		fmt.Fprintf(os.Stderr, "Warning: OPENAI_API_KEY not set, image generation disabled\n")
	}

	return registry
}

// session is the assembled dialogue stack shared by commands.
// close releases the local store.
type session struct {
	provider   llm.Provider
	registry   *tools.Registry
	settings   config.Settings
	reconciler *history.Reconciler
	close      func()
}

// buildSession assembles provider, tools and history storage for a
// command.
func buildSession(opts Options) (*session, error) {
	providerName := opts.Provider
	if providerName == "" {
		providerName = "openai"
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, err
	}

	provider, err := createProvider(settings)
	if err != nil {
		return nil, err
	}

	registry := buildRegistry(settings)

	store, err := storage.OpenSqlite(settings.History.DatabasePath)
	if err != nil {
		return nil, err
	}

	var remote *history.RemoteLog
	if settings.History.APIBaseURL != "" {
		remote = history.NewRemoteLog(settings.History.APIBaseURL)
	}

	return &session{
		provider:   provider,
		registry:   registry,
		settings:   settings,
		reconciler: history.NewReconciler(remote, store),
		close:      func() { _ = store.Close() },
	}, nil
}

// buildOrchestrator assembles the dialogue orchestrator for one-shot
// answering.
func (s *session) buildOrchestrator(opts Options) *dialogue.Orchestrator {
	maxIterations := opts.MaxIterations
	if maxIterations == 0 {
		maxIterations = s.settings.Dialogue.MaxIterations
	}
	return dialogue.New(s.provider, s.registry, s.reconciler).
		WithMaxIterations(maxIterations)
}

// resolveMode picks the dialogue mode from options or settings.
func resolveMode(opts Options, settings config.Settings) (string, error) {
	mode := opts.Mode
	if mode == "" {
		mode = settings.Dialogue.Mode
	}
	switch mode {
	case dialogue.ModeSetup, dialogue.ModeExplore:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected setup or explore)", mode)
	}
}

// Ask answers a single query and prints the result.
func Ask(ctx context.Context, query, threadID string, projectContext map[string]string, imageContext string, attachedImages []string, opts Options) error {
	session, err := buildSession(opts)
	if err != nil {
		return err
	}
	defer session.close()

	mode, err := resolveMode(opts, session.settings)
	if err != nil {
		return err
	}

	if threadID == "" {
		threadID = uuid.NewString()
		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "Thread: %s\n", threadID)
		}
	}

	answer := session.buildOrchestrator(opts).GetAnswer(ctx, dialogue.Request{
		Query:          query,
		ThreadID:       threadID,
		Mode:           mode,
		ProjectContext: projectContext,
		ImageContext:   imageContext,
		AttachedImages: attachedImages,
	})

	fmt.Println(answer)
	return nil
}

// Chat runs an interactive session on a single thread. Turns run
// through the message-graph loop over a live transcript, so tool
// detours earlier in the session stay visible to the model; each
// answered turn is also written through to the local store.
func Chat(ctx context.Context, threadID string, opts Options) error {
	session, err := buildSession(opts)
	if err != nil {
		return err
	}
	defer session.close()

	mode, err := resolveMode(opts, session.settings)
	if err != nil {
		return err
	}

	if threadID == "" {
		threadID = uuid.NewString()
	}
	fmt.Printf("Chat session on thread %s (mode: %s). Type 'exit' to quit.\n", threadID, mode)

	turns, err := session.reconciler.Resolve(ctx, threadID)
	if err != nil {
		return err
	}
	transcript := dialogue.Assemble(dialogue.SystemPrompt(dialogue.PromptOptions{Mode: mode}), turns)

	graph := dialogue.NewGraph(session.provider, session.registry).
		WithMaxSteps(session.settings.Dialogue.MaxGraphSteps)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		userMsg := llm.UserMessage(query)
		working := append(append([]llm.ChatMessage{}, transcript...), userMsg)

		grown, err := graph.ProcessTurn(ctx, working)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing turn: %v\n", err)
			fmt.Printf("%s\n\n", dialogue.ProcessingApology)
			continue
		}

		transcript = grown
		answer := grown[len(grown)-1].Content
		session.reconciler.Record(ctx, threadID, userMsg, llm.AssistantMessage(answer))
		fmt.Printf("%s\n\n", answer)
	}

	return scanner.Err()
}

// ListTools prints the tools available under current configuration.
func ListTools(opts Options) error {
	providerName := opts.Provider
	if providerName == "" {
		providerName = "openai"
	}

	settings, err := config.New(providerName)
	if err != nil {
		return err
	}

	registry := buildRegistry(settings)
	names := registry.Names()
	if len(names) == 0 {
		fmt.Println("No tools configured.")
		return nil
	}

	if opts.Verbose {
		fmt.Println(registry.Description())
		return nil
	}
	for _, meta := range registry.List() {
		fmt.Println(meta.String())
	}
	return nil
}
