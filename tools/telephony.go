// Telephony tools: SMS and voice calls.
//
// Information Hiding:
// - REST API endpoints and authentication
// - Request encoding and response parsing

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TelephonyConfig holds credentials for the messaging/voice REST API.
type TelephonyConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	// BaseURL overrides the API endpoint, mainly for tests.
	// Defaults to the Twilio API when empty.
	BaseURL string
}

const defaultTelephonyBaseURL = "https://api.twilio.com/2010-04-01"

func (c TelephonyConfig) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return defaultTelephonyBaseURL
}

func (c TelephonyConfig) validate() error {
	if c.AccountSID == "" || c.AuthToken == "" {
		return fmt.Errorf("telephony credentials not configured")
	}
	if c.FromNumber == "" {
		return fmt.Errorf("telephony sender number not configured")
	}
	return nil
}

type telephonyArgs struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

func parseTelephonyArgs(args json.RawMessage, needMessage bool) (telephonyArgs, error) {
	var a telephonyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(a.Recipient) == "" {
		return a, fmt.Errorf("recipient cannot be empty")
	}
	if needMessage && strings.TrimSpace(a.Message) == "" {
		return a, fmt.Errorf("message cannot be empty")
	}
	return a, nil
}

// postForm sends an authenticated form POST and returns the response body.
func postForm(ctx context.Context, client *http.Client, cfg TelephonyConfig, endpoint string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(cfg.AccountSID, cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("API error: %s: %s", resp.Status, string(body))
	}
	return string(body), nil
}

// SMSTool sends text messages through the telephony REST API.
type SMSTool struct {
	BaseTool
	client *http.Client
	config TelephonyConfig
}

// NewSMSTool creates an SMS tool with the given configuration.
func NewSMSTool(config TelephonyConfig) *SMSTool {
	return &SMSTool{
		client: &http.Client{Timeout: DefaultToolTimeout * time.Second},
		config: config,
	}
}

// Metadata returns the tool metadata.
func (t *SMSTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        NameSendSMS,
		Description: "Send an SMS text message to a phone number.",
		Parameters: []ToolParameter{
			{Name: "recipient", ParamType: "string", Description: "The recipient phone number", Required: true},
			{Name: "message", ParamType: "string", Description: "The message body to send", Required: true},
		},
	}
}

// Validate validates the arguments.
func (t *SMSTool) Validate(args json.RawMessage) error {
	if _, err := parseTelephonyArgs(args, true); err != nil {
		return err
	}
	return t.config.validate()
}

// Execute sends the SMS.
func (t *SMSTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	a, err := parseTelephonyArgs(args, true)
	if err != nil {
		return FailureResult(err), nil
	}
	if err := t.config.validate(); err != nil {
		return FailureResult(err), nil
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.config.baseURL(), t.config.AccountSID)
	form := url.Values{
		"To":   {a.Recipient},
		"From": {t.config.FromNumber},
		"Body": {a.Message},
	}

	body, err := postForm(ctx, t.client, t.config, endpoint, form)
	if err != nil {
		return FailureResult(fmt.Errorf("SMS send failed: %w", err)), nil
	}

	var parsed struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if jsonErr := json.Unmarshal([]byte(body), &parsed); jsonErr == nil && parsed.SID != "" {
		return SuccessResult(fmt.Sprintf("Message %s queued with status %s", parsed.SID, parsed.Status)), nil
	}
	return SuccessResult("Message queued"), nil
}

// CallTool initiates voice calls that read a message aloud.
type CallTool struct {
	BaseTool
	client *http.Client
	config TelephonyConfig
}

// NewCallTool creates a voice call tool with the given configuration.
func NewCallTool(config TelephonyConfig) *CallTool {
	return &CallTool{
		client: &http.Client{Timeout: DefaultToolTimeout * time.Second},
		config: config,
	}
}

// Metadata returns the tool metadata.
func (t *CallTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        NameMakeCall,
		Description: "Place a voice call to a phone number and read a message aloud.",
		Parameters: []ToolParameter{
			{Name: "recipient", ParamType: "string", Description: "The recipient phone number", Required: true},
			{Name: "message", ParamType: "string", Description: "The message to read during the call", Required: false},
		},
	}
}

// Validate validates the arguments.
func (t *CallTool) Validate(args json.RawMessage) error {
	if _, err := parseTelephonyArgs(args, false); err != nil {
		return err
	}
	return t.config.validate()
}

// Execute places the call.
func (t *CallTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	a, err := parseTelephonyArgs(args, false)
	if err != nil {
		return FailureResult(err), nil
	}
	if err := t.config.validate(); err != nil {
		return FailureResult(err), nil
	}

	message := a.Message
	if strings.TrimSpace(message) == "" {
		message = "Hello! This is an automated call from your assistant."
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", t.config.baseURL(), t.config.AccountSID)
	form := url.Values{
		"To":    {a.Recipient},
		"From":  {t.config.FromNumber},
		"Twiml": {fmt.Sprintf("<Response><Say>%s</Say></Response>", escapeXML(message))},
	}

	body, err := postForm(ctx, t.client, t.config, endpoint, form)
	if err != nil {
		return FailureResult(fmt.Errorf("call failed: %w", err)), nil
	}

	var parsed struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if jsonErr := json.Unmarshal([]byte(body), &parsed); jsonErr == nil && parsed.SID != "" {
		return SuccessResult(fmt.Sprintf("Call %s started with status %s", parsed.SID, parsed.Status)), nil
	}
	return SuccessResult("Call started"), nil
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

// Verify tools implement Tool
var _ Tool = (*SMSTool)(nil)
var _ Tool = (*CallTool)(nil)
