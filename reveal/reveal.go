// Package reveal shows story text one character at a time.
package reveal

import (
	"context"
	"time"
)

// DefaultInterval is the delay between two revealed characters.
const DefaultInterval = 20 * time.Millisecond

// Frame is one step of a reveal.
type Frame struct {
	Text  string // everything revealed so far
	Delta string // the character added by this frame
	Done  bool   // Text is the complete input
}

// Reveal calls emit once per character of text, interval apart, until the
// text is complete, ctx is done or emit fails. Characters are runes, so
// multi-byte text is never split. A non-positive interval means
// DefaultInterval.
func Reveal(ctx context.Context, text string, interval time.Duration, emit func(Frame) error) error {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		f := Frame{Text: string(runes[:i]), Delta: string(runes[i-1]), Done: i == len(runes)}
		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}
