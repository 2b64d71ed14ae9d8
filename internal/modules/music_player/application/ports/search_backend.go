package ports

import (
	"context"

	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// SearchBackend defines the interface for loading and searching tracks on the node.
type SearchBackend interface {
	// Resolve looks up query with the given search source and returns the
	// normalized result, with every track attributed to requester.
	// A nil or empty result is a valid answer, not an error.
	Resolve(
		ctx context.Context,
		query string,
		source domain.SearchSource,
		requester domain.Requester,
	) (*domain.LoadResult, error)
}
