package narrator

import (
	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Field descriptions shared by both schema renditions.
const (
	descStoryText   = "The next part of the story. Should be engaging and describe the outcome of the player's last choice. Max 2-3 sentences."
	descFeedback    = "A strategic debrief explaining the positive and negative outcomes of the player's last choice and why the resources changed. Should be 1-2 sentences. If it's the start of the game, this should be an empty string."
	descChoices     = "An array of 3-4 choices for the player to make next. Each choice should be a short, actionable text."
	descChoiceID    = "A unique ID for the choice, e.g., 'choice_1'"
	descChoiceText  = "The text for the choice button."
	descIsGameOver  = "Set to true if the game has reached an ending condition (e.g., resources hit 0, or AI progress hits 100)."
	descOutcomeText = "If isGameOver is true, this text describes the final outcome of the game. Otherwise, it should be an empty string."
)

var (
	stateFields    = []string{"storyText", "resources", "choices", "isGameOver", "outcomeText", "feedback"}
	resourceFields = []string{"compute", "talent", "funding", "publicTrust", "aiProgress"}
	gaugeDesc      = map[string]string{
		"compute":     "New value for compute power (0-100).",
		"talent":      "New value for research talent (0-100).",
		"funding":     "New value for funding (0-100).",
		"publicTrust": "New value for public trust (0-100).",
		"aiProgress":  "New value for AI progress towards AGI (0-100).",
	}
)

// GeminiSchema is the response schema handed to the Gemini model.
func GeminiSchema() *genai.Schema {
	gauges := make(map[string]*genai.Schema, len(resourceFields))
	for _, f := range resourceFields {
		gauges[f] = &genai.Schema{Type: genai.TypeInteger, Description: gaugeDesc[f]}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"storyText": {Type: genai.TypeString, Description: descStoryText},
			"feedback":  {Type: genai.TypeString, Description: descFeedback},
			"resources": {
				Type:       genai.TypeObject,
				Properties: gauges,
				Required:   resourceFields,
			},
			"choices": {
				Type:        genai.TypeArray,
				Description: descChoices,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":   {Type: genai.TypeString, Description: descChoiceID},
						"text": {Type: genai.TypeString, Description: descChoiceText},
					},
					Required: []string{"id", "text"},
				},
			},
			"isGameOver":  {Type: genai.TypeBoolean, Description: descIsGameOver},
			"outcomeText": {Type: genai.TypeString, Description: descOutcomeText},
		},
		Required: stateFields,
	}
}

// OpenAISchema is the same contract as a strict JSON schema.
func OpenAISchema() jsonschema.Definition {
	gauges := make(map[string]jsonschema.Definition, len(resourceFields))
	for _, f := range resourceFields {
		gauges[f] = jsonschema.Definition{Type: jsonschema.Integer, Description: gaugeDesc[f]}
	}
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"storyText": {Type: jsonschema.String, Description: descStoryText},
			"feedback":  {Type: jsonschema.String, Description: descFeedback},
			"resources": {
				Type:                 jsonschema.Object,
				Properties:           gauges,
				Required:             resourceFields,
				AdditionalProperties: false,
			},
			"choices": {
				Type:        jsonschema.Array,
				Description: descChoices,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"id":   {Type: jsonschema.String, Description: descChoiceID},
						"text": {Type: jsonschema.String, Description: descChoiceText},
					},
					Required:             []string{"id", "text"},
					AdditionalProperties: false,
				},
			},
			"isGameOver":  {Type: jsonschema.Boolean, Description: descIsGameOver},
			"outcomeText": {Type: jsonschema.String, Description: descOutcomeText},
		},
		Required:             stateFields,
		AdditionalProperties: false,
	}
}
