package prompts_test

import (
	"strings"
	"testing"

	"agi_race/prompts"
	"agi_race/story"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	current := story.InitialState()
	history := []story.HistoryEntry{
		{Story: "First scene.", Choice: "Hire everyone."},
		{Story: current.StoryText, Choice: "Buy GPUs."},
	}

	p := prompts.Build(current, history, "Buy GPUs.")

	assert.Contains(t, p, "- Compute: 60/100")
	assert.Contains(t, p, "- Research Talent: 50/100")
	assert.Contains(t, p, "- Funding: 70/100")
	assert.Contains(t, p, "- Public Trust: 80/100")
	assert.Contains(t, p, "- AI Progress: 10/100")
	assert.Contains(t, p, "Scene: First scene.\nYour Choice: Hire everyone.\n\nScene: "+current.StoryText)
	assert.Contains(t, p, "**Player's Previous Situation:**\n"+current.StoryText)
	assert.Contains(t, p, "\"Buy GPUs.\"")
	assert.Contains(t, p, "Aethelred Inc.")
	assert.Contains(t, p, "If 'aiProgress' reaches 100, the player wins.")
	assert.NotContains(t, p, "%!")

	assert.Equal(t, p, prompts.Build(current, history, "Buy GPUs."))
}

func TestHistory_Empty(t *testing.T) {
	assert.Empty(t, prompts.History(nil))
}

func TestHistory_Order(t *testing.T) {
	h := prompts.History([]story.HistoryEntry{
		{Story: "a", Choice: "1"},
		{Story: "b", Choice: "2"},
	})
	assert.Less(t, strings.Index(h, "Scene: a"), strings.Index(h, "Scene: b"))
}
