// Package narrator turns a player's choice into the next game state by
// asking a text generation service for a JSON reply.
//
// Everything the service sends back is treated as untrusted: the reply must
// carry every field of the schema and each gauge is clamped to [0,100].
// Any failure is absorbed here and replaced by a fallback state that offers
// a restart, so callers never see an error.
package narrator

import (
	"context"
	"errors"
	"time"

	"agi_race/metrics"
	"agi_race/prompts"
	"agi_race/story"

	"github.com/rs/zerolog"
)

// FallbackStory is shown when the collaborator could not produce a state.
const FallbackStory = "A critical error occurred in the simulation. The project is in jeopardy. Please try making a different choice or restarting the simulation."

var (
	// ErrEmptyReply is returned by generators when the service answered with no text.
	ErrEmptyReply = errors.New("empty reply")
	// ErrInvalidReply wraps every schema violation found while decoding.
	ErrInvalidReply = errors.New("invalid reply")
)

// Generator sends a prompt to a text generation service and returns the raw
// reply text. Implementations request the game state JSON schema.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client implements story.Narrator over a Generator.
type Client struct {
	gen     Generator
	model   string
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewClient wires a generator; model is only used to label logs and metrics.
func NewClient(gen Generator, model string, m *metrics.Metrics, log zerolog.Logger) *Client {
	return &Client{
		gen:     gen,
		model:   model,
		metrics: m,
		log:     log.With().Str("component", "narrator").Str("model", model).Logger(),
	}
}

var _ story.Narrator = (*Client)(nil)

// NextState asks the collaborator for the state following choiceText. The
// history already contains the step being taken.
func (c *Client) NextState(ctx context.Context, current story.GameState, choiceText string, history []story.HistoryEntry) story.GameState {
	prompt := prompts.Build(current, history, choiceText)

	start := time.Now()
	raw, err := c.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)
	c.metrics.NarratorDuration.WithLabelValues(c.model).Observe(elapsed.Seconds())

	if err != nil {
		c.metrics.NarratorRequests.WithLabelValues(c.model, metrics.ResultTransportError).Inc()
		c.log.Error().Err(err).Dur("elapsed", elapsed).Msg("generation request failed")
		return Fallback(current)
	}

	next, err := ParseReply(raw)
	if err != nil {
		c.metrics.NarratorRequests.WithLabelValues(c.model, metrics.ResultInvalidReply).Inc()
		c.log.Error().Err(err).Dur("elapsed", elapsed).Int("reply_bytes", len(raw)).Msg("unusable generation reply")
		return Fallback(current)
	}

	c.metrics.NarratorRequests.WithLabelValues(c.model, metrics.ResultOK).Inc()
	c.log.Debug().
		Dur("elapsed", elapsed).
		Int("history", len(history)).
		Bool("game_over", next.IsGameOver).
		Msg("next state generated")
	return next
}

// Fallback keeps the gauges and ending of current but replaces the narrative
// with an error message and a single restart choice.
func Fallback(current story.GameState) story.GameState {
	next := current.Clone()
	next.StoryText = FallbackStory
	next.Feedback = ""
	next.Choices = []story.Choice{story.RestartChoice()}
	return next
}
