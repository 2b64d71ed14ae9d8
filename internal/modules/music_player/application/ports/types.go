package ports

import (
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// PlayerUpdate is the player patch sent to the node.
type PlayerUpdate struct {
	Filters Filters `json:"filters"`
}

// Filters is the complete filter object of a player update.
// Every group is always present: unset groups are sent as null and an
// unset equalizer as an empty list, so the node drops whatever it had.
type Filters struct {
	Volume    *float64               `json:"volume"`
	Equalizer []domain.EqualizerBand `json:"equalizer"`
	Karaoke   *domain.Karaoke        `json:"karaoke"`
	Timescale *domain.Timescale      `json:"timescale"`
	Vibrato   *domain.Vibrato        `json:"vibrato"`
	Rotation  *domain.Rotation       `json:"rotation"`
}

// NewFilterUpdate builds a full player update from a filter configuration.
func NewFilterUpdate(config domain.FilterConfiguration) PlayerUpdate {
	config = config.Clone()
	return PlayerUpdate{
		Filters: Filters{
			Volume:    config.Volume,
			Equalizer: config.Equalizer,
			Karaoke:   config.Karaoke,
			Timescale: config.Timescale,
			Vibrato:   config.Vibrato,
			Rotation:  config.Rotation,
		},
	}
}
