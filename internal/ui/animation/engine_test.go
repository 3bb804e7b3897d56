package animation

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestRangeRandomStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	window := Range{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}
	for i := 0; i < 100; i++ {
		value := window.Random(rng)
		if value < window.Min || value >= window.Max {
			t.Fatalf("Random() = %s, want within [%s, %s)", value, window.Min, window.Max)
		}
	}
	fixed := Range{Min: time.Second, Max: time.Second}
	if got := fixed.Random(rng); got != time.Second {
		t.Fatalf("fixed Random() = %s, want 1s", got)
	}
}

func TestConfettiFrameCentersMessage(t *testing.T) {
	spec := ConfettiSpec{Width: 12, Rows: 3, Glyphs: []string{"*"}, Density: 1}
	frame := spec.Frame(rand.New(rand.NewSource(1)), "Done")
	lines := strings.Split(frame, "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3", len(lines))
	}
	if lines[1] != "    Done    " {
		t.Fatalf("middle row = %q", lines[1])
	}
	if lines[0] != strings.Repeat("*", 12) {
		t.Fatalf("confetti row = %q, want full density", lines[0])
	}
}

func TestConfettiFrameWidensForLongMessage(t *testing.T) {
	spec := ConfettiSpec{Width: 2, Rows: 1}
	if frame := spec.Frame(rand.New(rand.NewSource(1)), "Session Complete!"); frame != "Session Complete!" {
		t.Fatalf("frame = %q", frame)
	}
}

func TestCelebrateEndsWithMessage(t *testing.T) {
	frames := make(chan string, 256)
	engine := New(Config{
		FrameInterval: Range{Min: time.Millisecond, Max: time.Millisecond},
		Duration:      20 * time.Millisecond,
		Confetti:      ConfettiSpec{Width: 10, Rows: 3, Glyphs: []string{"*"}, Density: 0.5},
	}, func(frame string) {
		frames <- frame
	})

	engine.Celebrate(context.Background(), "Yay")
	timeout := time.After(2 * time.Second)
	count := 0
	for {
		select {
		case frame := <-frames:
			count++
			if frame == "Yay" {
				if count < 2 {
					t.Fatalf("expected confetti frames before the final message, got %d frames", count)
				}
				return
			}
		case <-timeout:
			t.Fatalf("celebration did not finish")
		}
	}
}

func TestStopCancelsCelebration(t *testing.T) {
	frames := make(chan string, 256)
	engine := New(Config{
		FrameInterval: Range{Min: time.Hour, Max: time.Hour},
		Duration:      time.Hour,
		Confetti:      ConfettiSpec{Width: 4, Rows: 1},
	}, func(frame string) {
		frames <- frame
	})

	engine.Celebrate(context.Background(), "Go")
	select {
	case <-frames:
	case <-time.After(time.Second):
		t.Fatalf("no first frame")
	}
	engine.Stop()

	select {
	case frame := <-frames:
		t.Fatalf("unexpected frame after stop: %q", frame)
	case <-time.After(50 * time.Millisecond):
	}
}
