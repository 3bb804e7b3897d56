package animation

import (
	"math/rand"
	"strings"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// ConfettiSpec describes the shape of one confetti frame.
type ConfettiSpec struct {
	Width   int
	Rows    int
	Glyphs  []string
	Density float64
}

// Frame builds a confetti field with message centered on the middle row.
func (spec ConfettiSpec) Frame(rng *rand.Rand, message string) string {
	width := spec.Width
	if messageWidth := len([]rune(message)); messageWidth > width {
		width = messageWidth
	}
	rows := spec.Rows
	if rows < 1 {
		rows = 1
	}
	middle := rows / 2

	lines := make([]string, rows)
	for row := range lines {
		if row == middle {
			lines[row] = centerText(message, width)
			continue
		}
		lines[row] = spec.scatter(rng, width)
	}
	return strings.Join(lines, "\n")
}

func (spec ConfettiSpec) scatter(rng *rand.Rand, width int) string {
	var line strings.Builder
	for column := 0; column < width; column++ {
		if len(spec.Glyphs) > 0 && rng.Float64() < spec.Density {
			line.WriteString(spec.Glyphs[rng.Intn(len(spec.Glyphs))])
			continue
		}
		line.WriteByte(' ')
	}
	return line.String()
}

func centerText(text string, width int) string {
	padding := width - len([]rune(text))
	if padding <= 0 {
		return text
	}
	left := padding / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", padding-left)
}
