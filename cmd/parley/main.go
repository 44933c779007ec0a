// Package main provides the parley CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/richinex/parley/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider string
	mode     string
	maxIter  int
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "parley",
		Short: "Conversational dialogue engine with tool-using agents",
		Long: `A dialogue engine that answers queries through an LLM agent with
web search, SMS, voice call and image generation tools.

Requests that plainly ask for an image, SMS or call are executed
directly; everything else goes through a bounded tool-calling loop
with persistent per-thread history.`,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (openai, anthropic, gemini)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "Dialogue mode (setup, explore)")
	rootCmd.PersistentFlags().IntVarP(&maxIter, "max-iter", "m", 0, "Maximum agent iterations per turn")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func globalOptions() cli.Options {
	return cli.Options{
		Provider:      provider,
		Mode:          mode,
		MaxIterations: maxIter,
		Verbose:       verbose,
	}
}

func askCmd() *cobra.Command {
	var threadID string
	var imageContext string
	var images []string
	var project []string

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a single query",
		Long: `Answer a single query. With --thread, the turn joins an existing
conversation and is recorded for later turns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectContext, err := parseProjectContext(project)
			if err != nil {
				return err
			}
			return cli.Ask(context.Background(), args[0], threadID, projectContext, imageContext, images, globalOptions())
		},
	}

	cmd.Flags().StringVar(&threadID, "thread", "", "Thread ID for conversation continuity")
	cmd.Flags().StringVar(&imageContext, "image-context", "", "Description of previously shared images")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Image URL or data URL to attach (repeatable)")
	cmd.Flags().StringArrayVar(&project, "project", nil, "Project context entry as key=value (repeatable)")

	return cmd
}

func chatCmd() *cobra.Command {
	var threadID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), threadID, globalOptions())
		},
	}

	cmd.Flags().StringVar(&threadID, "thread", "", "Thread ID to resume (new thread if omitted)")

	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListTools(globalOptions())
		},
	}
}

func parseProjectContext(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	projectContext := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --project entry %q (expected key=value)", entry)
		}
		projectContext[key] = value
	}
	return projectContext, nil
}
