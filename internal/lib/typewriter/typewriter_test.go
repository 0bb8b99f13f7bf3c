package typewriter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, tw *Typewriter, n int) []Frame {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	frames := tw.Run(ctx)

	var out []Frame
	for f := range frames {
		out = append(out, f)
		if len(out) == n {
			cancel()
		}
	}

	require.Len(t, out, n)
	return out
}

func TestTypewriter_TypesOneRunePerTick(t *testing.T) {
	tw := New([]string{"abc"}, time.Millisecond, time.Millisecond)

	frames := collect(t, tw, 3)

	assert.Equal(t, "a", frames[0].Text)
	assert.Equal(t, "ab", frames[1].Text)
	assert.Equal(t, "abc", frames[2].Text)
	assert.False(t, frames[2].Deleting)
}

func TestTypewriter_DeletesAndAdvances(t *testing.T) {
	tw := New([]string{"ab", "xy"}, time.Millisecond, time.Millisecond)

	// type a, ab, hold ab, delete a, "", then next text: x
	frames := collect(t, tw, 6)

	assert.Equal(t, "ab", frames[2].Text)
	assert.True(t, frames[2].Deleting)
	assert.Equal(t, "a", frames[3].Text)
	assert.Equal(t, "", frames[4].Text)
	assert.Equal(t, "x", frames[5].Text)
	assert.Equal(t, 1, frames[5].TextIndex)
	assert.False(t, frames[5].Deleting)
}

func TestTypewriter_WrapsAroundTextList(t *testing.T) {
	tw := New([]string{"a", "b"}, time.Millisecond, time.Millisecond)

	// a, a(hold), "", b, b(hold), "", a again
	frames := collect(t, tw, 7)

	assert.Equal(t, "a", frames[6].Text)
	assert.Equal(t, 0, frames[6].TextIndex)
}

func TestTypewriter_CancelClosesStream(t *testing.T) {
	tw := New([]string{"hello"}, time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	frames := tw.Run(ctx)

	<-frames
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("frame channel not closed after cancel")
		}
	}
}

func TestTypewriter_NoTexts(t *testing.T) {
	tw := New(nil, time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok := <-tw.Run(ctx)
	assert.False(t, ok)
}
