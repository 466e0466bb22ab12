package narrator

import (
	"context"
	"fmt"
	"strings"

	openaigo "github.com/sashabaranov/go-openai"
)

// OpenAI generates replies through any OpenAI-compatible chat completions
// endpoint using a strict JSON schema response format.
type OpenAI struct {
	client      *openaigo.Client
	model       string
	temperature float32
}

// NewOpenAI builds a generator; an empty baseURL keeps the library default.
func NewOpenAI(apiKey, baseURL, model string, temperature float32) *OpenAI {
	cfg := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client:      openaigo.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	schema := OpenAISchema()
	resp, err := o.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openaigo.ChatCompletionResponseFormatJSONSchema{
				Name:   "game_state",
				Schema: &schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
