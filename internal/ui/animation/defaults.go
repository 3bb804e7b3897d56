package animation

import "time"

// DefaultConfig returns the celebration shown when a session completes.
func DefaultConfig() Config {
	return Config{
		FrameInterval: Range{
			Min: 120 * time.Millisecond,
			Max: 220 * time.Millisecond,
		},
		Duration: 4 * time.Second,
		Confetti: ConfettiSpec{
			Width:   28,
			Rows:    5,
			Glyphs:  []string{"*", "+", "o", "~", "•", "✦"},
			Density: 0.18,
		},
	}
}
