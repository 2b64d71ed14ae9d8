package usecases

import (
	"context"
	"strings"

	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// DefaultSearchLimit is the number of tracks returned when no limit is given.
const DefaultSearchLimit = 5

// SearchInput contains the input for the Search use case.
type SearchInput struct {
	Query     string
	Source    domain.SearchSource // empty uses the service default
	Requester domain.Requester
	Limit     int
}

// SearchOutput contains the result of the Search use case.
type SearchOutput struct {
	LoadType     domain.LoadType
	Tracks       []*domain.Track
	TotalTracks  int
	IsPlaylist   bool
	PlaylistName string
	Preview      *domain.Track // first playlist entry, set only for playlists
}

// TrackLoaderService handles track loading operations.
type TrackLoaderService struct {
	backend ports.SearchBackend
	source  domain.SearchSource
}

// NewTrackLoaderService creates a new TrackLoaderService.
func NewTrackLoaderService(
	backend ports.SearchBackend,
	source domain.SearchSource,
) *TrackLoaderService {
	if source == domain.SourceDirect {
		source = domain.DefaultSearchSource
	}
	return &TrackLoaderService{
		backend: backend,
		source:  source,
	}
}

// Search loads tracks for a URL or search term.
func (s *TrackLoaderService) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.backend == nil {
		return nil, ErrBackendUnavailable
	}

	source := input.Source
	if source == domain.SourceDirect {
		source = s.source
	}

	result, err := s.backend.Resolve(ctx, query, source, input.Requester)
	if err != nil {
		return nil, err
	}
	if result.IsEmpty() {
		return nil, ErrNoResults
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, len(result.Tracks))

	output := &SearchOutput{
		LoadType:    result.LoadType,
		Tracks:      result.Tracks[:limit],
		TotalTracks: len(result.Tracks),
	}

	if playlist, ok := result.Data.(domain.PlaylistData); ok {
		output.IsPlaylist = true
		output.Preview = domain.NewPlaylistPreview(playlist, input.Requester)
		if result.PlaylistInfo != nil {
			output.PlaylistName = result.PlaylistInfo.Name
		}
	}

	return output, nil
}
