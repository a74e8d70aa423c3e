package player

import "errors"

var (
	// ErrPlaybackFailure wraps errors reported by the media handle.
	ErrPlaybackFailure = errors.New("playback failure")

	// ErrPlayInterrupted is returned by MediaHandle.Play when a newer load or
	// pause superseded the request. The controller ignores it.
	ErrPlayInterrupted = errors.New("play interrupted")

	// ErrPersistence wraps failed side-effect writes. They are logged only.
	ErrPersistence = errors.New("persistence failure")
)
