package usecases

import (
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Track is an alias for domain.Track.
type Track = domain.Track

// Requester is an alias for domain.Requester.
type Requester = domain.Requester

// SearchSource is an alias for domain.SearchSource.
type SearchSource = domain.SearchSource

// FilterConfiguration is an alias for domain.FilterConfiguration.
type FilterConfiguration = domain.FilterConfiguration

// FilterPresets returns the names of all filter presets.
func FilterPresets() []string {
	presets := domain.FilterPresets()
	names := make([]string, len(presets))
	for i, preset := range presets {
		names[i] = string(preset)
	}
	return names
}

// ParseSearchSource is domain.ParseSearchSource.
func ParseSearchSource(name string) SearchSource {
	return domain.ParseSearchSource(name)
}
