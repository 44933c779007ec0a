package cli

import (
	"testing"

	"github.com/richinex/parley/config"
)

func TestCreateProviderUsesSettings(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	settings := config.Settings{
		LLM: config.LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			MaxTokens:   1024,
			Temperature: 0.2,
		},
	}

	provider, err := createProvider(settings)
	if err != nil {
		t.Fatalf("createProvider failed: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected openai, got %s", provider.Name())
	}
	if provider.Model() != "gpt-4o-mini" {
		t.Errorf("configured model not applied, got %s", provider.Model())
	}
}

func TestCreateProviderUnknown(t *testing.T) {
	settings := config.Settings{
		LLM: config.LLMConfig{Provider: "cohere"},
	}
	if _, err := createProvider(settings); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildRegistryFullConfiguration(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	settings := config.Settings{
		Search: config.SearchConfig{
			Endpoint: "https://search.example.com/v1",
			APIKey:   "search-key",
		},
		Telephony: config.TelephonyConfig{
			AccountSID: "AC123",
			AuthToken:  "token",
			FromNumber: "+15550000000",
		},
	}

	registry := buildRegistry(settings)
	names := registry.Names()
	want := []string{"generate_image", "make_call", "send_sms", "web_search"}
	if len(names) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("expected %s at %d, got %s", name, i, names[i])
		}
	}
}
