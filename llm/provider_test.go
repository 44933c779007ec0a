package llm

import (
	"testing"
)

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		input string
		want  ProviderType
	}{
		{"openai", ProviderOpenAI},
		{"gpt", ProviderOpenAI},
		{"OpenAI", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"claude", ProviderAnthropic},
		{"gemini", ProviderGemini},
		{"google", ProviderGemini},
	}

	for _, c := range cases {
		got, err := ParseProviderType(c.input)
		if err != nil {
			t.Errorf("ParseProviderType(%q) failed: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestParseProviderTypeUnknown(t *testing.T) {
	if _, err := ParseProviderType("cohere"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderTypeDefaults(t *testing.T) {
	if ProviderOpenAI.DefaultModel() != ModelOpenAIGPT4o {
		t.Errorf("unexpected default model: %s", ProviderOpenAI.DefaultModel())
	}
	if ProviderAnthropic.EnvVar() != "ANTHROPIC_API_KEY" {
		t.Errorf("unexpected env var: %s", ProviderAnthropic.EnvVar())
	}
}

func TestBuilderAPIKey(t *testing.T) {
	provider, err := ProviderOpenAI.Model(ModelOpenAIGPT4oMini).APIKey("sk-test")
	if err != nil {
		t.Fatalf("builder failed: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected openai, got %s", provider.Name())
	}
	if provider.Model() != ModelOpenAIGPT4oMini {
		t.Errorf("expected %s, got %s", ModelOpenAIGPT4oMini, provider.Model())
	}
}

func TestBuilderTuning(t *testing.T) {
	provider, err := ProviderOpenAI.
		Model(ModelOpenAIGPT4oMini).
		MaxTokens(1024).
		Temperature(0.2).
		APIKey("sk-test")
	if err != nil {
		t.Fatalf("builder failed: %v", err)
	}

	openai, ok := provider.(*OpenAIProvider)
	if !ok {
		t.Fatalf("expected *OpenAIProvider, got %T", provider)
	}
	if openai.maxTokens != 1024 {
		t.Errorf("expected max tokens 1024, got %d", openai.maxTokens)
	}
	if openai.temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", openai.temperature)
	}
}

func TestMultimodalTagging(t *testing.T) {
	plain := UserMessage("hello")
	if plain.Multimodal() {
		t.Error("plain message should not be multimodal")
	}

	structured := MultimodalUserMessage(TextPart("look"), ImagePart("https://example.com/a.png"))
	if !structured.Multimodal() {
		t.Error("message with parts should be multimodal")
	}
	if len(structured.Parts) != 2 {
		t.Errorf("expected 2 parts, got %d", len(structured.Parts))
	}
	if structured.Parts[0].Type != PartText || structured.Parts[1].Type != PartImage {
		t.Error("parts should preserve construction order")
	}
}

func TestSplitDataURL(t *testing.T) {
	mediaType, data, ok := splitDataURL("data:image/png;base64,aGVsbG8=")
	if !ok {
		t.Fatal("expected data URL to parse")
	}
	if mediaType != "image/png" {
		t.Errorf("expected image/png, got %s", mediaType)
	}
	if data != "aGVsbG8=" {
		t.Errorf("unexpected payload: %s", data)
	}

	if _, _, ok := splitDataURL("https://example.com/a.png"); ok {
		t.Error("https URL should not parse as data URL")
	}
}
