package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// stubTool is a minimal tool for registry and executor tests.
type stubTool struct {
	BaseTool
	name   string
	result ToolResult
	err    error
}

func (s *stubTool) Metadata() ToolMetadata {
	return ToolMetadata{Name: s.name, Description: "stub"}
}

func (s *stubTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	return s.result, s.err
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	tool := &stubTool{name: "echo"}

	if err := registry.Register(tool); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := registry.Register(tool); err == nil {
		t.Error("expected duplicate registration to fail")
	}

	got, ok := registry.Get("echo")
	if !ok {
		t.Fatal("expected to find registered tool")
	}
	if got.Metadata().Name != "echo" {
		t.Errorf("unexpected tool name: %s", got.Metadata().Name)
	}
	if !registry.Has("echo") {
		t.Error("Has should report registered tool")
	}
	if registry.Has("missing") {
		t.Error("Has should not report unregistered tool")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(&stubTool{name: name}); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}

	names := registry.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestExecutorValidationFailure(t *testing.T) {
	executor := NewExecutor(5)
	search := NewSearchTool("http://localhost:1", "", 5)

	result, err := executor.Execute(context.Background(), search, json.RawMessage(`{"query": ""}`))
	if err != nil {
		t.Fatalf("Execute returned transport error: %v", err)
	}
	if result.Success() {
		t.Error("expected validation failure to produce failed result")
	}
	if !strings.Contains(result.Error.Error(), "validation failed") {
		t.Errorf("unexpected error: %v", result.Error)
	}
}

func TestExecutorSingleShot(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": "boom"}`)
	}))
	defer server.Close()

	executor := NewExecutor(5)
	search := NewSearchTool(server.URL, "", 5)

	result, err := executor.Execute(context.Background(), search, json.RawMessage(`{"query": "go"}`))
	if err != nil {
		t.Fatalf("Execute returned transport error: %v", err)
	}
	if result.Success() {
		t.Error("expected failed result on server error")
	}
	if calls != 1 {
		t.Errorf("expected exactly one request, got %d", calls)
	}
}

func TestSearchToolFormatsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		fmt.Fprint(w, `{"results": [
			{"title": "Go Blog", "url": "https://go.dev/blog", "snippet": "Official Go blog"},
			{"title": "Go Docs", "url": "https://go.dev/doc"}
		]}`)
	}))
	defer server.Close()

	search := NewSearchTool(server.URL, "test-key", 5)
	result, err := search.Execute(context.Background(), json.RawMessage(`{"query": "golang"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("expected success, got %v", result.Error)
	}
	for _, want := range []string{"1. Go Blog", "https://go.dev/blog", "Official Go blog", "2. Go Docs"} {
		if !strings.Contains(result.Output, want) {
			t.Errorf("output missing %q:\n%s", want, result.Output)
		}
	}
}

func TestSearchToolEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer server.Close()

	search := NewSearchTool(server.URL, "", 5)
	result, err := search.Execute(context.Background(), json.RawMessage(`{"query": "nothing"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Output != "No results found." {
		t.Errorf("unexpected output: %s", result.Output)
	}
}

func TestSMSToolSendsForm(t *testing.T) {
	var gotTo, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Error("expected basic auth credentials")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		gotTo = r.FormValue("To")
		gotBody = r.FormValue("Body")
		fmt.Fprint(w, `{"sid": "SM1", "status": "queued"}`)
	}))
	defer server.Close()

	sms := NewSMSTool(TelephonyConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550000000",
		BaseURL:    server.URL,
	})

	result, err := sms.Execute(context.Background(), json.RawMessage(`{"recipient": "+14155550100", "message": "pickup at 5"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("expected success, got %v", result.Error)
	}
	if gotTo != "+14155550100" {
		t.Errorf("unexpected To: %s", gotTo)
	}
	if gotBody != "pickup at 5" {
		t.Errorf("unexpected Body: %s", gotBody)
	}
	if !strings.Contains(result.Output, "SM1") {
		t.Errorf("expected result to include message SID: %s", result.Output)
	}
}

func TestSMSToolMissingCredentials(t *testing.T) {
	sms := NewSMSTool(TelephonyConfig{})
	result, err := sms.Execute(context.Background(), json.RawMessage(`{"recipient": "+14155550100", "message": "hi"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Success() {
		t.Error("expected failure without credentials")
	}
}

func TestCallToolDefaultMessage(t *testing.T) {
	var gotTwiml string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		gotTwiml = r.FormValue("Twiml")
		fmt.Fprint(w, `{"sid": "CA1", "status": "queued"}`)
	}))
	defer server.Close()

	call := NewCallTool(TelephonyConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550000000",
		BaseURL:    server.URL,
	})

	result, err := call.Execute(context.Background(), json.RawMessage(`{"recipient": "+14155550100"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("expected success, got %v", result.Error)
	}
	if !strings.Contains(gotTwiml, "<Say>") {
		t.Errorf("expected Twiml with Say verb: %s", gotTwiml)
	}
	if !strings.Contains(gotTwiml, "automated call") {
		t.Errorf("expected default message in Twiml: %s", gotTwiml)
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a < b & "c"`)
	want := "a &lt; b &amp; &quot;c&quot;"
	if got != want {
		t.Errorf("escapeXML = %q, want %q", got, want)
	}
}

func TestToolResultMarshalJSON(t *testing.T) {
	ok, err := json.Marshal(SuccessResult("done"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(ok), `"success":true`) {
		t.Errorf("unexpected JSON: %s", ok)
	}

	bad, err := json.Marshal(FailureResultf("boom"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(bad), `"success":false`) || !strings.Contains(string(bad), "boom") {
		t.Errorf("unexpected JSON: %s", bad)
	}
}

func TestImageToolValidate(t *testing.T) {
	img := NewImageTool("sk-test")
	if err := img.Validate(json.RawMessage(`{"prompt": "a red fox"}`)); err != nil {
		t.Errorf("expected valid args: %v", err)
	}
	if err := img.Validate(json.RawMessage(`{"prompt": "  "}`)); err == nil {
		t.Error("expected empty prompt to fail validation")
	}
}
