package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements LLMClient using Google's Gemini API.
type GeminiClient struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiClient creates a new Gemini oracle client.
func NewGeminiClient(ctx context.Context, apiKey, defaultModel string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("screening: gemini api key is required")
	}
	if strings.TrimSpace(defaultModel) == "" {
		defaultModel = "gemini-2.5-flash-lite"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("screening: failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:       client,
		defaultModel: defaultModel,
	}, nil
}

// Complete sends a single-shot completion request to Gemini.
func (c *GeminiClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	modelID := req.Model
	if strings.TrimSpace(modelID) == "" {
		modelID = c.defaultModel
	}
	model := c.client.GenerativeModel(modelID)

	if req.Temperature >= 0 {
		model.SetTemperature(req.Temperature)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if strings.TrimSpace(req.System) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return LLMResponse{}, errors.New("screening: gemini requires a prompt")
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return LLMResponse{}, fmt.Errorf("screening: gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return LLMResponse{}, errors.New("screening: gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return LLMResponse{}, errors.New("screening: gemini returned empty content")
	}

	var responseText strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return LLMResponse{
		Text:       strings.TrimSpace(responseText.String()),
		StopReason: fmt.Sprint(candidate.FinishReason),
	}, nil
}

// Close releases resources held by the Gemini client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
