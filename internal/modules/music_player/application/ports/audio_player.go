package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// AudioPlayer defines the interface for audio playback operations.
type AudioPlayer interface {
	// Play starts playback of the given track, replacing the current one.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error
}
