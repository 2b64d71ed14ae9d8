package ports

import "github.com/sglre6355/lavasync/internal/modules/music_player/domain"

// EventPublisher defines the interface for publishing events asynchronously.
type EventPublisher interface {
	// PublishTrackFailed publishes a TrackFailedEvent without blocking.
	PublishTrackFailed(event domain.TrackFailedEvent)
}
