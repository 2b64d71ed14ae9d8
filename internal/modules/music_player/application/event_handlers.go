package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// TrackRecoverer replays a failed track from a re-resolved reference.
// usecases.TrackRecoveryService implements it.
type TrackRecoverer interface {
	Recover(ctx context.Context, input usecases.RecoverTrackInput) (bool, error)
}

var _ TrackRecoverer = (*usecases.TrackRecoveryService)(nil)

// RecoveryEventHandler handles events related to failed playback.
// It subscribes to TrackFailed events and tries to replace the failed track.
type RecoveryEventHandler struct {
	recovery   TrackRecoverer
	subscriber ports.EventSubscriber
	timeout    time.Duration
}

// NewRecoveryEventHandler creates a new RecoveryEventHandler.
// A positive timeout bounds each recovery attempt.
func NewRecoveryEventHandler(
	recovery TrackRecoverer,
	subscriber ports.EventSubscriber,
	timeout time.Duration,
) *RecoveryEventHandler {
	return &RecoveryEventHandler{
		recovery:   recovery,
		subscriber: subscriber,
		timeout:    timeout,
	}
}

// Start registers event handlers with the subscriber.
func (h *RecoveryEventHandler) Start() {
	h.subscriber.OnTrackFailed(h.handleTrackFailed)

	slog.Debug("recovery event handlers properly registered")
}

func (h *RecoveryEventHandler) handleTrackFailed(ctx context.Context, event domain.TrackFailedEvent) {
	if event.Track == nil {
		return
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	slog.Debug(
		"recovering failed track",
		"guild", event.GuildID,
		"kind", event.Kind,
		"title", event.Track.Title,
	)

	recovered, err := h.recovery.Recover(ctx, usecases.RecoverTrackInput{
		GuildID: event.GuildID,
		Track:   event.Track,
	})
	if err != nil {
		slog.Warn(
			"failed to recover track",
			"guild", event.GuildID,
			"title", event.Track.Title,
			"error", err,
		)
		return
	}

	if !recovered {
		slog.Info(
			"found no replacement for failed track",
			"guild", event.GuildID,
			"title", event.Track.Title,
		)
	}
}
