package narration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hazard-route-service/internal/platform/obs"

	"github.com/sashabaranov/go-openai"
)

// OpenAIStyler asks a chat model to restate an instruction in a given style.
type OpenAIStyler struct {
	client *openai.Client
	model  string
}

// NewOpenAIStyler builds a styler against the OpenAI API. baseURL overrides
// the API endpoint when non-empty (self-hosted gateways, tests).
func NewOpenAIStyler(apiKey, model, baseURL string) (*OpenAIStyler, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai styler: api key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIStyler{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (s *OpenAIStyler) Style(ctx context.Context, instruction, style string) (_ string, err error) {
	defer obs.Time(ctx, "narration.openai.Style")(&err)

	if strings.TrimSpace(style) == "" {
		return instruction, nil
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You rewrite turn-by-turn driving instructions. Keep every street name, direction and distance. Reply with the rewritten instruction only, one sentence.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Style: %s\nInstruction: %s", style, instruction),
				},
			},
			MaxTokens:   80,
			N:           1,
			Temperature: 0.7,
		},
	)
	if err != nil {
		return "", fmt.Errorf("style instruction: openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("style instruction: openai returned empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
