package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event handling.
// It implements both EventPublisher and EventSubscriber interfaces.
//
// Events are handed to one lane per guild: events of a guild are handled in
// publish order, while a slow handler only holds up its own guild.
type ChannelEventBus struct {
	trackFailed chan domain.TrackFailedEvent
	bufferSize  int

	// lanes is owned by the dispatcher goroutine.
	lanes map[snowflake.ID]chan domain.TrackFailedEvent

	trackFailedHandlers []func(context.Context, domain.TrackFailedEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		trackFailed: make(chan domain.TrackFailedEvent, bufferSize),
		bufferSize:  bufferSize,
		lanes:       make(map[snowflake.ID]chan domain.TrackFailedEvent),
		ctx:         ctx,
		cancel:      cancel,
	}

	bus.wg.Add(1)
	go bus.dispatchTrackFailed()

	return bus
}

func (b *ChannelEventBus) dispatchTrackFailed() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackFailed:
			if !ok {
				return
			}
			b.route(event)
		}
	}
}

// route must only be called from the dispatcher goroutine.
func (b *ChannelEventBus) route(event domain.TrackFailedEvent) {
	lane, ok := b.lanes[event.GuildID]
	if !ok {
		lane = make(chan domain.TrackFailedEvent, b.bufferSize)
		b.lanes[event.GuildID] = lane

		b.wg.Add(1)
		go b.runLane(lane)
	}

	select {
	case lane <- event:
	default:
		slog.Warn("guild event buffer full, dropping event", "type", "TrackFailed", "guild", event.GuildID)
	}
}

func (b *ChannelEventBus) runLane(lane <-chan domain.TrackFailedEvent) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event := <-lane:
			b.mu.RLock()
			handlers := b.trackFailedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

// PublishTrackFailed publishes a TrackFailedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishTrackFailed(event domain.TrackFailedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackFailed")
		return
	}

	select {
	case b.trackFailed <- event:
		slog.Debug("published event", "type", "TrackFailed", "guild", event.GuildID, "kind", event.Kind)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackFailed")
	}
}

// OnTrackFailed registers a handler for TrackFailedEvent.
func (b *ChannelEventBus) OnTrackFailed(handler func(context.Context, domain.TrackFailedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackFailedHandlers = append(b.trackFailedHandlers, handler)
}

// Close closes the event channel and stops the dispatcher.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	close(b.trackFailed)
	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
