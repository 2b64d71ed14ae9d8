package domain

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

const (
	// MinVolume and MaxVolume bound the player volume in percent.
	MinVolume = 0
	MaxVolume = 1000

	// DefaultVolume is the volume of a fresh session.
	DefaultVolume = 100
)

// PlayerState represents the playback session of a guild.
// It owns the session's filter configuration.
type PlayerState struct {
	guildID snowflake.ID

	mu      sync.Mutex
	volume  int // percent, 100 = unchanged
	filters FilterConfiguration
}

// NewPlayerState creates a new PlayerState for the given guild.
func NewPlayerState(guildID snowflake.ID, volume int) *PlayerState {
	return &PlayerState{
		guildID: guildID,
		volume:  ClampVolume(volume),
		filters: DefaultFilterConfiguration(),
	}
}

// GuildID returns the guild ID.
func (p *PlayerState) GuildID() snowflake.ID {
	// No lock: guildID must not be modified after initialization
	return p.guildID
}

// Volume returns the player volume in percent.
func (p *PlayerState) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume updates the player volume, clamped to [MinVolume, MaxVolume].
func (p *PlayerState) SetVolume(volume int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = ClampVolume(volume)
}

// Filters returns a copy of the current filter configuration.
func (p *PlayerState) Filters() FilterConfiguration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters.Clone()
}

// MutateFilters applies mutate to the filter configuration, stamps the
// current volume on it and returns a copy of the result, all under one lock.
// A nil mutate only stamps the volume.
func (p *PlayerState) MutateFilters(mutate func(*FilterConfiguration)) FilterConfiguration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mutate != nil {
		mutate(&p.filters)
	}
	if p.filters.Equalizer == nil {
		p.filters.Equalizer = []EqualizerBand{}
	}
	p.filters.Volume = Float(FilterVolume(p.volume))

	return p.filters.Clone()
}

// FilterVolume converts a player volume in percent to the node's filter volume.
func FilterVolume(percent int) float64 {
	return float64(percent) / 100
}

// ClampVolume limits volume to [MinVolume, MaxVolume].
func ClampVolume(volume int) int {
	return min(max(volume, MinVolume), MaxVolume)
}
