package usecases

import "errors"

// Domain errors for the music player module.
var (
	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("no results found")

	// ErrEmptyQuery is returned when a search is requested without a query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrBackendUnavailable is returned when no search backend is configured.
	ErrBackendUnavailable = errors.New("search backend unavailable")

	// ErrUnknownPreset is returned when a filter preset name is not recognized.
	ErrUnknownPreset = errors.New("unknown filter preset")

	// ErrInvalidVolume is returned when a volume is outside the allowed range.
	ErrInvalidVolume = errors.New("volume must be between 0 and 1000")

	// ErrNoSession is returned when a guild has no playback session.
	ErrNoSession = errors.New("no playback session for this server")
)
