package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"golang.org/x/time/rate"
)

// DefaultFilterSyncTimeout bounds a single filter update sent to the node.
const DefaultFilterSyncTimeout = 5 * time.Second

// Compile-time check that FilterSyncQueue implements ports.FilterDispatcher.
var _ ports.FilterDispatcher = (*FilterSyncQueue)(nil)

// FilterSyncQueue delivers filter updates to the node in the background.
//
// Each guild gets one worker with at most one update in flight. Updates
// dispatched while one is in flight replace each other, so only the newest
// is sent next and the node never sees an older snapshot after a newer one.
type FilterSyncQueue struct {
	updater  ports.PlayerUpdater
	timeout  time.Duration
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
	guilds map[snowflake.ID]*guildSync
}

// guildSync holds the latest undelivered update of one guild.
type guildSync struct {
	mu      sync.Mutex
	pending *ports.PlayerUpdate
	wake    chan struct{}
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
}

func (g *guildSync) offer(update ports.PlayerUpdate) {
	g.mu.Lock()
	g.pending = &update
	g.mu.Unlock()

	select {
	case g.wake <- struct{}{}:
	default:
		// worker already has a wake-up queued and will pick up the newest update
	}
}

func (g *guildSync) take() *ports.PlayerUpdate {
	g.mu.Lock()
	defer g.mu.Unlock()

	update := g.pending
	g.pending = nil
	return update
}

// NewFilterSyncQueue creates a new FilterSyncQueue.
// timeout bounds each update (DefaultFilterSyncTimeout if not positive) and
// interval is the minimum spacing between two updates of the same guild
// (no spacing if not positive).
func NewFilterSyncQueue(
	updater ports.PlayerUpdater,
	timeout time.Duration,
	interval time.Duration,
) *FilterSyncQueue {
	if timeout <= 0 {
		timeout = DefaultFilterSyncTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FilterSyncQueue{
		updater:  updater,
		timeout:  timeout,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		guilds:   make(map[snowflake.ID]*guildSync),
	}
}

// Dispatch queues update for the guild and returns immediately.
func (q *FilterSyncQueue) Dispatch(guildID snowflake.ID, update ports.PlayerUpdate) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		slog.Warn("attempted to dispatch to closed filter sync queue", "guild", guildID)
		return
	}

	g, ok := q.guilds[guildID]
	if !ok {
		g = q.startWorker(guildID)
	}
	q.mu.Unlock()

	g.offer(update)
	slog.Debug("queued filter update", "guild", guildID)
}

// Forget stops the guild's worker and drops its pending update.
// An update already in flight has its context cancelled.
func (q *FilterSyncQueue) Forget(guildID snowflake.ID) {
	q.mu.Lock()
	g, ok := q.guilds[guildID]
	delete(q.guilds, guildID)
	q.mu.Unlock()

	if ok {
		g.cancel()
	}
}

// Close stops all workers and waits for them to exit.
// Dispatching after Close is a no-op.
func (q *FilterSyncQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()

	slog.Debug("filter sync queue closed")
}

// startWorker must be called with q.mu held.
func (q *FilterSyncQueue) startWorker(guildID snowflake.ID) *guildSync {
	limit := rate.Inf
	if q.interval > 0 {
		limit = rate.Every(q.interval)
	}

	ctx, cancel := context.WithCancel(q.ctx)
	g := &guildSync{
		wake:    make(chan struct{}, 1),
		limiter: rate.NewLimiter(limit, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	q.guilds[guildID] = g

	q.wg.Add(1)
	go q.run(guildID, g)

	return g
}

func (q *FilterSyncQueue) run(guildID snowflake.ID, g *guildSync) {
	defer q.wg.Done()
	defer g.cancel()

	for {
		select {
		case <-g.ctx.Done():
			return
		case <-g.wake:
		}

		if err := g.limiter.Wait(g.ctx); err != nil {
			return
		}

		// Taken after waiting so that updates dispatched meanwhile are coalesced.
		update := g.take()
		if update == nil {
			continue
		}

		q.send(g.ctx, guildID, *update)
	}
}

func (q *FilterSyncQueue) send(ctx context.Context, guildID snowflake.ID, update ports.PlayerUpdate) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	err := q.updater.UpdatePlayer(ctx, guildID, update)
	switch {
	case err == nil:
		slog.Debug("synced filters", "guild", guildID)
	case errors.Is(err, context.Canceled):
		slog.Debug("cancelled filter sync", "guild", guildID)
	default:
		slog.Warn("failed to sync filters", "guild", guildID, "error", err)
	}
}
