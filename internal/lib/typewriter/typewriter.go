package typewriter

import (
	"context"
	"time"
)

// Frame is one display step of the animation: the currently visible
// prefix of the active text.
type Frame struct {
	Text      string `json:"text"`
	TextIndex int    `json:"text_index"`
	Deleting  bool   `json:"deleting"`
}

// Typewriter cycles through a list of texts, typing one rune per tick,
// pausing on the full text, then deleting at double speed before moving
// to the next text. Each Run is independent, so the loop is restartable;
// cancelling the context tears the loop down and closes the channel.
type Typewriter struct {
	texts []string
	speed time.Duration
	pause time.Duration
}

func New(texts []string, speed, pause time.Duration) *Typewriter {
	if speed <= 0 {
		speed = 100 * time.Millisecond
	}
	if pause <= 0 {
		pause = 2 * time.Second
	}

	return &Typewriter{
		texts: texts,
		speed: speed,
		pause: pause,
	}
}

// Run starts the animation loop and returns the frame stream. The
// goroutine exits and closes the channel once ctx is done.
func (t *Typewriter) Run(ctx context.Context) <-chan Frame {
	frames := make(chan Frame)

	go func() {
		defer close(frames)

		if len(t.texts) == 0 {
			return
		}

		textIndex := 0
		charIndex := 0
		deleting := false

		for {
			current := []rune(t.texts[textIndex])

			var wait time.Duration
			switch {
			case !deleting && charIndex < len(current):
				charIndex++
				wait = t.speed
			case !deleting:
				// full text reached, hold before deleting
				deleting = true
				wait = t.pause
			case charIndex > 0:
				charIndex--
				wait = t.speed / 2
			default:
				deleting = false
				textIndex = (textIndex + 1) % len(t.texts)
				wait = t.speed
				continue
			}

			frame := Frame{
				Text:      string(current[:charIndex]),
				TextIndex: textIndex,
				Deleting:  deleting,
			}

			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return
			}
		}
	}()

	return frames
}
