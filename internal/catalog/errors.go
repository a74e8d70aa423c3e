package catalog

import "errors"

var (
	// ErrInvalidArgument is returned for input the caller must fix, such as a
	// query shorter than two characters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProviderFailure wraps any upstream error, timeout or malformed payload.
	// Search and Trending never return it; it only reaches logs and metrics.
	ErrProviderFailure = errors.New("provider failure")

	ErrTrackNotFound   = errors.New("track not found")
	ErrUnknownProvider = errors.New("unknown provider")
)
