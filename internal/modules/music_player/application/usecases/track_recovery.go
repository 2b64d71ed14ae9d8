package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// RecoverTrackInput contains the input for the Recover use case.
type RecoverTrackInput struct {
	GuildID snowflake.ID
	Track   *domain.Track
}

// TrackRecoveryService replays tracks the node failed to play from a
// re-resolved reference.
type TrackRecoveryService struct {
	resolver *TrackResolverService
	player   ports.AudioPlayer
}

// NewTrackRecoveryService creates a new TrackRecoveryService.
func NewTrackRecoveryService(
	resolver *TrackResolverService,
	player ports.AudioPlayer,
) *TrackRecoveryService {
	return &TrackRecoveryService{
		resolver: resolver,
		player:   player,
	}
}

// Recover re-resolves the failed track and plays the replacement.
// It returns false when no different reference was found, so a candidate
// that already failed is never replayed.
func (s *TrackRecoveryService) Recover(ctx context.Context, input RecoverTrackInput) (bool, error) {
	track := input.Track
	if track == nil {
		return false, nil
	}
	previous := track.Encoded()

	resolved, err := s.resolver.Resolve(ctx, track)
	if err != nil || !resolved {
		return false, err
	}

	if track.Encoded() == previous {
		slog.Debug("re-resolved to the failed reference", "guild", input.GuildID, "title", track.Title)
		return false, nil
	}

	if err := s.player.Play(ctx, input.GuildID, track); err != nil {
		return false, fmt.Errorf("failed to play re-resolved track: %w", err)
	}

	slog.Info("recovered failed track",
		"guild", input.GuildID,
		"title", track.Title,
		"identifier", track.Identifier(),
	)

	return true, nil
}
