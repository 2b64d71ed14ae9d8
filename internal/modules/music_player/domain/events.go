package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackFailureKind represents why the node gave up on a track.
type TrackFailureKind string

const (
	// TrackFailureException means the node raised an exception while playing.
	TrackFailureException TrackFailureKind = "exception"
	// TrackFailureStuck means the track stopped producing audio.
	TrackFailureStuck TrackFailureKind = "stuck"
)

// TrackFailedEvent is published when the node could not play a track (from Lavalink).
type TrackFailedEvent struct {
	GuildID snowflake.ID
	Track   *Track
	Kind    TrackFailureKind
	Message string
}
