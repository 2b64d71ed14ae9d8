package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// PlayerUpdater is the command channel to the node's player of a guild.
type PlayerUpdater interface {
	// UpdatePlayer sends update to the player of the given guild.
	UpdatePlayer(ctx context.Context, guildID snowflake.ID, update PlayerUpdate) error
}

// FilterDispatcher hands filter updates to the node without waiting for them.
type FilterDispatcher interface {
	// Dispatch queues update for the given guild and returns immediately.
	Dispatch(guildID snowflake.ID, update PlayerUpdate)

	// Forget drops any pending update and worker for the given guild.
	Forget(guildID snowflake.ID)
}
