package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// Gemini generates replies with a Google Gemini model constrained to the
// game state schema.
type Gemini struct {
	model *genai.GenerativeModel
}

// NewGemini configures name on client for JSON output at the given temperature.
func NewGemini(client *genai.Client, name string, temperature float32) *Gemini {
	model := client.GenerativeModel(name)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = GeminiSchema()
	return &Gemini{model: model}
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
