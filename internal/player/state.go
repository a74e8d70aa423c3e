package player

import "github.com/Harsh00198/Auraluxe-Music/internal/catalog"

type RepeatMode string

const (
	RepeatOff RepeatMode = "off"
	RepeatOne RepeatMode = "one"
	RepeatAll RepeatMode = "all"
)

// Next cycles off -> one -> all -> off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatOff
	}
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
)

// State is a copy of the controller's state at one instant. Mutating it has
// no effect on the controller.
type State struct {
	Current  *catalog.Track
	Queue    []catalog.Track
	Index    int
	Playing  bool
	Loading  bool
	Shuffled bool
	Repeat   RepeatMode
	Volume   float64
	Progress float64 // percent of Duration
	Duration float64 // seconds, 0 until metadata is loaded
	Status   Status
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
