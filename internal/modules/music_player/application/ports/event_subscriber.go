package ports

import (
	"context"

	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// EventSubscriber defines the interface for subscribing to events.
// Handlers are registered with the subscriber and invoked when events occur.
type EventSubscriber interface {
	OnTrackFailed(handler func(context.Context, domain.TrackFailedEvent))
}
