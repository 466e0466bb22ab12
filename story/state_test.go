package story_test

import (
	"testing"

	"agi_race/story"

	"github.com/stretchr/testify/assert"
)

func TestResources_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   story.Resources
		want story.Resources
	}{
		{
			name: "in range untouched",
			in:   story.Resources{Compute: 60, Talent: 50, Funding: 70, PublicTrust: 80, AIProgress: 10},
			want: story.Resources{Compute: 60, Talent: 50, Funding: 70, PublicTrust: 80, AIProgress: 10},
		},
		{
			name: "overflow and underflow",
			in:   story.Resources{Compute: 150, Talent: -5, Funding: 100, PublicTrust: 0, AIProgress: 101},
			want: story.Resources{Compute: 100, Talent: 0, Funding: 100, PublicTrust: 0, AIProgress: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamp())
		})
	}
}

func TestInitialState_IsFreshCopy(t *testing.T) {
	a := story.InitialState()
	a.Choices[0].Text = "changed"

	b := story.InitialState()
	assert.NotEqual(t, "changed", b.Choices[0].Text)
	assert.Equal(t, story.Resources{Compute: 60, Talent: 50, Funding: 70, PublicTrust: 80, AIProgress: 10}, b.Resources)
	assert.Empty(t, b.Feedback)
	assert.False(t, b.IsGameOver)
	assert.Len(t, b.Choices, 3)
}

func TestRestartChoice(t *testing.T) {
	r := story.RestartChoice()
	assert.True(t, r.IsRestart())
	assert.Equal(t, story.RestartID, r.ID)
	assert.Equal(t, "Restart Simulation", r.Text)

	assert.False(t, story.Choice{ID: story.RestartID, Text: "Restart"}.IsRestart())
}

func TestResources_GaugesOrder(t *testing.T) {
	g := story.InitialResources().Gauges()
	assert.Len(t, g, 5)
	assert.Equal(t, story.Gauge{Key: "aiProgress", Label: "AGI Progress", Value: 10}, g[0])
	assert.Equal(t, story.Gauge{Key: "publicTrust", Label: "Public Trust", Value: 80}, g[4])
}
