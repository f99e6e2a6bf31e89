// Package components defines ECS components for the show timeline.
package components

import "github.com/pthm-cable/fireworks/palette"

// CueKind determines what a cue does when it fires.
type CueKind uint8

const (
	CueWords   CueKind = iota // word burst of Text
	CueShell                  // launch one shell of ShellSize
	CueFinale                 // launch one shell of a random finale size
	CueAmbient                // launch one shell with probability Repeat.Chance
)

func (k CueKind) String() string {
	switch k {
	case CueWords:
		return "words"
	case CueShell:
		return "shell"
	case CueFinale:
		return "finale"
	default:
		return "ambient"
	}
}

// Schedule is when a cue next fires, in milliseconds of show time.
type Schedule struct {
	At    float64
	Fired int // times fired so far
}

// Cue holds what to do at the scheduled time.
type Cue struct {
	Kind        CueKind
	Text        string
	Color       palette.Color
	RandomColor bool    // one random colour per spark instead of Color
	Scale       float64 // word-burst font scale
	ShellSize   float64
}

// Repeat re-arms a cue after it fires. Remaining < 0 repeats forever;
// Remaining == 0 retires the cue after its next firing.
type Repeat struct {
	Interval  float64
	Remaining int
	Chance    float64 // firing probability for CueAmbient
}
