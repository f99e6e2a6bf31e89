package components

// Anchor is where a cue happens. Word bursts use X, Y as a point in stage
// pixels relative to the stage centre; shells use X as the launch position
// fraction (negative = random) and Y as the launch height fraction.
type Anchor struct {
	X, Y float64
}
