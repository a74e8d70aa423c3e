package player

import "context"

// MediaHandle is the single audio output a Controller drives.
//
// Implementations report progress back through the Controller's Handle*
// methods, tagging each event with the source it belongs to. Events must be
// delivered from a goroutine other than the one calling into the handle, and
// pauses requested through Pause must not be echoed as HandlePause.
type MediaHandle interface {
	Source() string
	Load(src string) error
	Play(ctx context.Context) error
	Pause()
	Paused() bool
	SetVolume(v float64)
	Seek(seconds float64)
	CurrentTime() float64
}
