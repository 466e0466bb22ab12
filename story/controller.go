package story

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Narrator produces the next state from the current one. Implementations must
// always return a usable state; collaborator failures are their concern.
type Narrator interface {
	NextState(ctx context.Context, current GameState, choiceText string, history []HistoryEntry) GameState
}

// Status is the controller's position in its state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusAwaitingResponse
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusAwaitingResponse:
		return "awaiting_response"
	case StatusGameOver:
		return "game_over"
	default:
		return "idle"
	}
}

// Outcome reports what a SubmitChoice call did.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeRestarted
	OutcomeAdvanced
	OutcomeGameOver
	OutcomeFailed
	// OutcomePending means Begin accepted the choice and a Turn is outstanding.
	OutcomePending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRestarted:
		return "restarted"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeGameOver:
		return "game_over"
	case OutcomeFailed:
		return "failed"
	case OutcomePending:
		return "pending"
	default:
		return "ignored"
	}
}

// ErrorMessage is shown when something outside the narrator breaks.
const ErrorMessage = "Failed to get next game state. Please try again."

// View is a consistent read of everything the controller owns.
type View struct {
	State   GameState
	History []HistoryEntry
	Loading bool
	Error   string
	Status  Status
}

// Controller owns the game state and history for one player.
type Controller struct {
	narrator Narrator
	log      zerolog.Logger

	mu      sync.Mutex
	state   GameState
	history []HistoryEntry
	err     string
	// inflight is the single-flight guard. Only the Turn that set it clears
	// it, so a reset never lets a second call start.
	inflight bool
	// epoch advances on every reset so a reply started before it is dropped.
	epoch uint64
}

// NewController returns a controller positioned at the initial state.
func NewController(n Narrator, log zerolog.Logger) *Controller {
	c := &Controller{narrator: n, log: log}
	c.Start()
	return c
}

// Start resets the game to the opening state. Called while a reply is
// pending, the reply is dropped when it arrives and new choices keep being
// ignored until then.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Controller) reset() {
	c.epoch++
	c.state = InitialState()
	c.history = nil
	c.err = ""
}

// SubmitChoice applies a player choice and waits for the reply. While a
// previous choice is still being narrated the call is dropped and reports
// OutcomeIgnored.
func (c *Controller) SubmitChoice(ctx context.Context, choice Choice) Outcome {
	turn, out := c.Begin(choice)
	if turn == nil {
		return out
	}
	return turn.Run(ctx)
}

// Turn is a choice accepted by Begin whose reply is still outstanding.
type Turn struct {
	c       *Controller
	epoch   uint64
	choice  Choice
	current GameState
	history []HistoryEntry
}

// Begin accepts choice without calling the narrator. A restart is applied at
// once and a choice made while a reply is pending is ignored; both return a
// nil Turn. Otherwise the controller is awaiting a response until the
// returned Turn is Run, which must happen exactly once.
func (c *Controller) Begin(choice Choice) (*Turn, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight {
		c.log.Debug().Str("choice", choice.ID).Msg("choice ignored while awaiting response")
		return nil, OutcomeIgnored
	}
	if choice.IsRestart() {
		c.reset()
		c.log.Info().Msg("simulation restarted")
		return nil, OutcomeRestarted
	}

	c.inflight = true
	c.err = ""
	current := c.state.Clone()
	updated := make([]HistoryEntry, len(c.history), len(c.history)+1)
	copy(updated, c.history)
	updated = append(updated, HistoryEntry{Story: current.StoryText, Choice: choice.Text})
	return &Turn{c: c, epoch: c.epoch, choice: choice, current: current, history: updated}, OutcomePending
}

// Run calls the narrator and commits its reply together with the history.
func (t *Turn) Run(ctx context.Context) Outcome {
	c := t.c
	next, err := c.narrate(ctx, t.current, t.choice.Text, t.history)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = false
	if t.epoch != c.epoch {
		c.log.Debug().Str("choice", t.choice.ID).Msg("reply dropped after restart")
		return OutcomeIgnored
	}
	if err != nil {
		c.err = ErrorMessage
		c.log.Error().Err(err).Str("choice", t.choice.ID).Msg("next game state")
		return OutcomeFailed
	}
	c.state = next
	c.history = t.history
	if next.IsGameOver {
		c.log.Info().Int("turns", len(t.history)).Str("outcome", next.OutcomeText).Msg("simulation ended")
		return OutcomeGameOver
	}
	return OutcomeAdvanced
}

// narrate runs the collaborator call and turns a panic into an error.
func (c *Controller) narrate(ctx context.Context, current GameState, choiceText string, history []HistoryEntry) (next GameState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("narrator panic: %v", r)
		}
	}()
	return c.narrator.NextState(ctx, current, choiceText, history).Clone(), nil
}

// Choice resolves a posted id against the choices currently on screen.
func (c *Controller) Choice(id string) (Choice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.state.Choices {
		if ch.ID == id {
			return ch, true
		}
	}
	return Choice{}, false
}

// Snapshot returns a copy of the state, history, loading flag and error taken
// under a single lock.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		State:   c.state.Clone(),
		History: append([]HistoryEntry(nil), c.history...),
		Loading: c.inflight,
		Error:   c.err,
		Status:  c.status(),
	}
}

// Status reports the current state machine position.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

func (c *Controller) status() Status {
	switch {
	case c.inflight:
		return StatusAwaitingResponse
	case c.state.IsGameOver:
		return StatusGameOver
	default:
		return StatusIdle
	}
}
