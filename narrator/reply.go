package narrator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"agi_race/story"
)

// reply mirrors the schema with pointers so missing fields can be told apart
// from zero values.
type reply struct {
	StoryText   *string        `json:"storyText"`
	Feedback    *string        `json:"feedback"`
	Resources   *replyGauges   `json:"resources"`
	Choices     *[]replyChoice `json:"choices"`
	IsGameOver  *bool          `json:"isGameOver"`
	OutcomeText *string        `json:"outcomeText"`
}

type replyGauges struct {
	Compute     *float64 `json:"compute"`
	Talent      *float64 `json:"talent"`
	Funding     *float64 `json:"funding"`
	PublicTrust *float64 `json:"publicTrust"`
	AIProgress  *float64 `json:"aiProgress"`
}

type replyChoice struct {
	ID   *string `json:"id"`
	Text *string `json:"text"`
}

// ParseReply decodes and validates a raw reply and clamps its gauges.
func ParseReply(raw string) (story.GameState, error) {
	var r reply
	if err := json.Unmarshal([]byte(cleanReply(raw)), &r); err != nil {
		return story.GameState{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	switch {
	case r.StoryText == nil:
		return story.GameState{}, missing("storyText")
	case r.Feedback == nil:
		return story.GameState{}, missing("feedback")
	case r.Resources == nil:
		return story.GameState{}, missing("resources")
	case r.Choices == nil:
		return story.GameState{}, missing("choices")
	case r.IsGameOver == nil:
		return story.GameState{}, missing("isGameOver")
	case r.OutcomeText == nil:
		return story.GameState{}, missing("outcomeText")
	}

	res, err := r.Resources.toResources()
	if err != nil {
		return story.GameState{}, err
	}

	choices, err := toChoices(*r.Choices)
	if err != nil {
		return story.GameState{}, err
	}
	if len(choices) == 0 && !*r.IsGameOver {
		return story.GameState{}, fmt.Errorf("%w: no choices offered and the game is not over", ErrInvalidReply)
	}

	return story.GameState{
		StoryText:   *r.StoryText,
		Resources:   res,
		Choices:     choices,
		IsGameOver:  *r.IsGameOver,
		OutcomeText: *r.OutcomeText,
		Feedback:    *r.Feedback,
	}, nil
}

// cleanReply trims the reply and strips a markdown code fence if the model
// wrapped its JSON in one.
func cleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func missing(field string) error {
	return fmt.Errorf("%w: missing %s", ErrInvalidReply, field)
}

func (g replyGauges) toResources() (story.Resources, error) {
	var res story.Resources
	fields := []struct {
		name string
		v    *float64
		dst  *int
	}{
		{"compute", g.Compute, &res.Compute},
		{"talent", g.Talent, &res.Talent},
		{"funding", g.Funding, &res.Funding},
		{"publicTrust", g.PublicTrust, &res.PublicTrust},
		{"aiProgress", g.AIProgress, &res.AIProgress},
	}
	for _, f := range fields {
		if f.v == nil {
			return story.Resources{}, missing("resources." + f.name)
		}
		if math.IsNaN(*f.v) || math.Trunc(*f.v) != *f.v {
			return story.Resources{}, fmt.Errorf("%w: resources.%s is not an integer: %v", ErrInvalidReply, f.name, *f.v)
		}
		// Bound before converting so huge values cannot overflow int.
		*f.dst = int(math.Max(-1, math.Min(101, *f.v)))
	}
	return res.Clamp(), nil
}

func toChoices(in []replyChoice) ([]story.Choice, error) {
	out := make([]story.Choice, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, c := range in {
		if c.ID == nil || *c.ID == "" {
			return nil, fmt.Errorf("%w: choices[%d].id is empty", ErrInvalidReply, i)
		}
		if c.Text == nil || strings.TrimSpace(*c.Text) == "" {
			return nil, fmt.Errorf("%w: choices[%d].text is empty", ErrInvalidReply, i)
		}
		if seen[*c.ID] {
			return nil, fmt.Errorf("%w: duplicate choice id %q", ErrInvalidReply, *c.ID)
		}
		seen[*c.ID] = true
		out = append(out, story.Choice{ID: *c.ID, Text: *c.Text, Kind: story.ChoiceAction})
	}
	return out, nil
}
