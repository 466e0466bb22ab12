package story

// RestartID is the choice id the restart action travels under in forms and
// in the fallback state.
const RestartID = "restart"

const (
	minGauge = 0
	maxGauge = 100
)

// Resources are the five gauges describing the project. Every value lies in
// [0,100] once it has passed through Clamp.
type Resources struct {
	Compute     int `json:"compute"`
	Talent      int `json:"talent"`
	Funding     int `json:"funding"`
	PublicTrust int `json:"publicTrust"`
	AIProgress  int `json:"aiProgress"`
}

// Clamp returns a copy of r with every gauge forced into [0,100].
func (r Resources) Clamp() Resources {
	return Resources{
		Compute:     clamp(r.Compute),
		Talent:      clamp(r.Talent),
		Funding:     clamp(r.Funding),
		PublicTrust: clamp(r.PublicTrust),
		AIProgress:  clamp(r.AIProgress),
	}
}

// Gauge is one labelled resource value.
type Gauge struct {
	Key   string
	Label string
	Value int
}

// Gauges lists the resources in display order.
func (r Resources) Gauges() []Gauge {
	return []Gauge{
		{"aiProgress", "AGI Progress", r.AIProgress},
		{"compute", "Compute Power", r.Compute},
		{"talent", "Research Talent", r.Talent},
		{"funding", "Funding", r.Funding},
		{"publicTrust", "Public Trust", r.PublicTrust},
	}
}

func clamp(v int) int {
	return max(minGauge, min(maxGauge, v))
}

// ChoiceKind separates ordinary player actions from the local restart action.
type ChoiceKind int

const (
	ChoiceAction ChoiceKind = iota
	ChoiceRestart
)

// Choice is one option presented to the player. IDs are unique within a
// presented set only.
type Choice struct {
	ID   string     `json:"id"`
	Text string     `json:"text"`
	Kind ChoiceKind `json:"-"`
}

// RestartChoice is the only way to build a restart action.
func RestartChoice() Choice {
	return Choice{ID: RestartID, Text: "Restart Simulation", Kind: ChoiceRestart}
}

// IsRestart reports whether the choice restarts the game locally.
func (c Choice) IsRestart() bool { return c.Kind == ChoiceRestart }

// GameState is the snapshot shown to the player. It is replaced wholesale on
// every transition.
type GameState struct {
	StoryText   string    `json:"storyText"`
	Resources   Resources `json:"resources"`
	Choices     []Choice  `json:"choices"`
	IsGameOver  bool      `json:"isGameOver"`
	OutcomeText string    `json:"outcomeText"`
	Feedback    string    `json:"feedback"`
}

// Clone returns a deep copy so callers can never alias the choice slice.
func (s GameState) Clone() GameState {
	out := s
	out.Choices = append([]Choice(nil), s.Choices...)
	return out
}

// HistoryEntry pairs the situation shown with the action taken.
type HistoryEntry struct {
	Story  string `json:"story"`
	Choice string `json:"choice"`
}

const openingStory = "You are the lead researcher of Project Chimera. The board has just approved your massive budget request. The goal: create the world's first true AGI. Your rival, Aethelred Inc., is rumored to be months ahead. The world watches. Your first move is critical."

// InitialResources are the gauges every run starts from.
func InitialResources() Resources {
	return Resources{Compute: 60, Talent: 50, Funding: 70, PublicTrust: 80, AIProgress: 10}
}

// InitialState returns a fresh copy of the opening state.
func InitialState() GameState {
	return GameState{
		StoryText: openingStory,
		Resources: InitialResources(),
		Choices: []Choice{
			{ID: "focus_talent", Text: "Launch a major hiring initiative to poach Aethelred's top talent."},
			{ID: "boost_compute", Text: "Invest heavily in a next-generation supercomputing cluster."},
			{ID: "public_relations", Text: "Start a PR campaign to build public support and attract investors."},
		},
	}
}
