// Image generation tool.
//
// Information Hiding:
// - Image API client and model selection
// - Response encoding (base64 data URL)

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ImageTool generates images from text prompts and returns them as
// base64 data URLs ready for inline embedding.
type ImageTool struct {
	BaseTool
	client *openai.Client
	model  string
	size   string
}

// NewImageTool creates an image generation tool with the given API key.
func NewImageTool(apiKey string) *ImageTool {
	return &ImageTool{
		client: openai.NewClient(apiKey),
		model:  openai.CreateImageModelDallE3,
		size:   openai.CreateImageSize1024x1024,
	}
}

// WithModel overrides the image model.
func (t *ImageTool) WithModel(model string) *ImageTool {
	t.model = model
	return t
}

// Metadata returns the tool metadata.
func (t *ImageTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        NameGenerateImage,
		Description: "Generate an image from a text description. Returns the image as a data URL.",
		Parameters: []ToolParameter{
			{Name: "prompt", ParamType: "string", Description: "Description of the image to generate", Required: true},
		},
	}
}

type imageArgs struct {
	Prompt string `json:"prompt"`
}

// Validate validates the arguments.
func (t *ImageTool) Validate(args json.RawMessage) error {
	var a imageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(a.Prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	return nil
}

// Execute generates the image.
func (t *ImageTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a imageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if strings.TrimSpace(a.Prompt) == "" {
		return FailureResultf("prompt cannot be empty"), nil
	}

	resp, err := t.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         a.Prompt,
		Model:          t.model,
		Size:           t.size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return FailureResult(fmt.Errorf("image generation failed: %w", err)), nil
	}
	if len(resp.Data) == 0 {
		return FailureResultf("image generation returned no data"), nil
	}

	dataURL := fmt.Sprintf("data:image/png;base64,%s", resp.Data[0].B64JSON)
	return SuccessResult(dataURL), nil
}

// Verify ImageTool implements Tool
var _ Tool = (*ImageTool)(nil)
