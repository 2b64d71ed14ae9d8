package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// TrackResolverService re-resolves tracks whose playable reference the node
// rejected, by searching for them again.
type TrackResolverService struct {
	backend ports.SearchBackend
	source  domain.SearchSource
}

// NewTrackResolverService creates a new TrackResolverService.
// An empty source falls back to domain.DefaultSearchSource.
func NewTrackResolverService(
	backend ports.SearchBackend,
	source domain.SearchSource,
) *TrackResolverService {
	if source == domain.SourceDirect {
		source = domain.DefaultSearchSource
	}
	return &TrackResolverService{
		backend: backend,
		source:  source,
	}
}

// Resolve searches for track by author and title and, if a candidate is
// found, replaces the track's playable reference and identifier with the
// candidate's. All other fields are left as they were.
//
// It returns false without error when the search has no candidates; the track
// is untouched in that case. Backend failures are returned as-is.
func (s *TrackResolverService) Resolve(ctx context.Context, track *domain.Track) (bool, error) {
	if s.backend == nil {
		return false, ErrBackendUnavailable
	}

	query := track.SearchTerms()
	result, err := s.backend.Resolve(ctx, query, s.source, track.Requester)
	if err != nil {
		return false, fmt.Errorf("failed to search for %q: %w", query, err)
	}

	if result.IsEmpty() {
		slog.Debug("found no candidates to re-resolve track", "query", query)
		return false, nil
	}

	candidate, match := domain.SelectCandidate(track, result.Tracks)
	if candidate == nil {
		return false, nil
	}

	track.ReplaceReference(candidate.Encoded(), candidate.Identifier())

	slog.Debug("re-resolved track",
		"query", query,
		"match", match,
		"identifier", candidate.Identifier(),
	)

	return true, nil
}
