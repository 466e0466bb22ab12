package reveal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agi_race/reveal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReveal_AllFrames(t *testing.T) {
	var frames []reveal.Frame
	err := reveal.Reveal(context.Background(), "héllo", time.Millisecond, func(f reveal.Frame) error {
		frames = append(frames, f)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, frames, 5)
	assert.Equal(t, "h", frames[0].Text)
	assert.Equal(t, "hé", frames[1].Text)
	assert.Equal(t, "é", frames[1].Delta)
	assert.Equal(t, "héllo", frames[4].Text)
	assert.True(t, frames[4].Done)
	assert.False(t, frames[3].Done)
}

func TestReveal_Empty(t *testing.T) {
	called := false
	err := reveal.Reveal(context.Background(), "", time.Millisecond, func(reveal.Frame) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestReveal_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	err := reveal.Reveal(ctx, "a long story text", time.Millisecond, func(reveal.Frame) error {
		n++
		if n == 3 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, n)
}

func TestReveal_EmitError(t *testing.T) {
	boom := errors.New("client gone")
	err := reveal.Reveal(context.Background(), "abc", time.Millisecond, func(reveal.Frame) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestReveal_DefaultInterval(t *testing.T) {
	start := time.Now()
	var last reveal.Frame
	err := reveal.Reveal(context.Background(), "ab", 0, func(f reveal.Frame) error {
		last = f
		return nil
	})

	require.NoError(t, err)
	assert.True(t, last.Done)
	assert.GreaterOrEqual(t, time.Since(start), 2*reveal.DefaultInterval)
}
