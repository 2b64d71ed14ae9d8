package usecases

import (
	"log/slog"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// FilterSession is the session state a FilterChain works on.
// domain.PlayerState implements it.
type FilterSession interface {
	GuildID() snowflake.ID

	// Filters returns a copy of the current configuration.
	Filters() domain.FilterConfiguration

	// MutateFilters atomically applies mutate, stamps the session volume and
	// returns a copy of the resulting configuration.
	MutateFilters(mutate func(*domain.FilterConfiguration)) domain.FilterConfiguration
}

// Compile-time interface check.
var _ FilterSession = (*domain.PlayerState)(nil)

// FilterChain changes the filters of one session and pushes the full
// configuration to the node after every change.
// Mutators return the chain so calls can be chained.
type FilterChain struct {
	session    FilterSession
	dispatcher ports.FilterDispatcher
}

// NewFilterChain creates a FilterChain for the given session.
func NewFilterChain(session FilterSession, dispatcher ports.FilterDispatcher) *FilterChain {
	return &FilterChain{
		session:    session,
		dispatcher: dispatcher,
	}
}

// Filters returns a copy of the session's current configuration.
func (c *FilterChain) Filters() domain.FilterConfiguration {
	return c.session.Filters()
}

// SetEqualizer replaces the equalizer bands. Nil clears the equalizer.
// Setters store copies, so callers may reuse their arguments.
func (c *FilterChain) SetEqualizer(bands []domain.EqualizerBand) *FilterChain {
	return c.mutate(func(cfg *domain.FilterConfiguration) {
		cfg.Equalizer = slices.Clone(bands)
	})
}

// SetKaraoke sets the karaoke options. Nil disables karaoke.
func (c *FilterChain) SetKaraoke(karaoke *domain.Karaoke) *FilterChain {
	return c.mutate(func(cfg *domain.FilterConfiguration) {
		cfg.Karaoke = karaoke.Clone()
	})
}

// SetTimescale sets the timescale options. Nil disables timescale.
func (c *FilterChain) SetTimescale(timescale *domain.Timescale) *FilterChain {
	return c.mutate(func(cfg *domain.FilterConfiguration) {
		cfg.Timescale = timescale.Clone()
	})
}

// SetVibrato sets the vibrato options. Nil disables vibrato.
func (c *FilterChain) SetVibrato(vibrato *domain.Vibrato) *FilterChain {
	return c.mutate(func(cfg *domain.FilterConfiguration) {
		cfg.Vibrato = vibrato.Clone()
	})
}

// SetRotation sets the rotation options. Nil disables rotation.
func (c *FilterChain) SetRotation(rotation *domain.Rotation) *FilterChain {
	return c.mutate(func(cfg *domain.FilterConfiguration) {
		cfg.Rotation = rotation.Clone()
	})
}

// ClearFilters resets every filter group to its default.
func (c *FilterChain) ClearFilters() *FilterChain {
	return c.mutate(func(cfg *domain.FilterConfiguration) {
		*cfg = domain.DefaultFilterConfiguration()
	})
}

// Sync pushes the current configuration without changing it,
// e.g. after the session volume changed.
func (c *FilterChain) Sync() *FilterChain {
	return c.mutate(nil)
}

// EightD slowly rotates the audio around the listener.
func (c *FilterChain) EightD() *FilterChain {
	return c.SetRotation(&domain.Rotation{RotationHz: domain.Float(0.2)})
}

// BassBoost applies the bass boost equalizer.
func (c *FilterChain) BassBoost() *FilterChain {
	return c.SetEqualizer(domain.BassBoostEqualizer())
}

// Nightcore speeds up and pitches up playback.
func (c *FilterChain) Nightcore() *FilterChain {
	return c.SetTimescale(&domain.Timescale{
		Speed: domain.Float(1.1),
		Pitch: domain.Float(1.125),
		Rate:  domain.Float(1.05),
	})
}

// Slowmo slows down playback.
func (c *FilterChain) Slowmo() *FilterChain {
	return c.SetTimescale(&domain.Timescale{
		Speed: domain.Float(0.5),
		Pitch: domain.Float(1.0),
		Rate:  domain.Float(0.8),
	})
}

// Soft applies the soft equalizer.
func (c *FilterChain) Soft() *FilterChain {
	return c.SetEqualizer(domain.SoftEqualizer())
}

// TV applies the TV equalizer.
func (c *FilterChain) TV() *FilterChain {
	return c.SetEqualizer(domain.TVEqualizer())
}

// TrebleBass applies the treble bass equalizer.
func (c *FilterChain) TrebleBass() *FilterChain {
	return c.SetEqualizer(domain.TrebleBassEqualizer())
}

// Vaporwave applies the vaporwave equalizer, then lowers the pitch.
// This syncs twice.
func (c *FilterChain) Vaporwave() *FilterChain {
	return c.SetEqualizer(domain.VaporwaveEqualizer()).
		SetTimescale(&domain.Timescale{Pitch: domain.Float(0.55)})
}

// ApplyPreset applies the named preset. It returns false for unknown presets
// without touching the configuration.
func (c *FilterChain) ApplyPreset(preset domain.FilterPreset) bool {
	switch preset {
	case domain.PresetEightD:
		c.EightD()
	case domain.PresetBassBoost:
		c.BassBoost()
	case domain.PresetNightcore:
		c.Nightcore()
	case domain.PresetSlowmo:
		c.Slowmo()
	case domain.PresetSoft:
		c.Soft()
	case domain.PresetTV:
		c.TV()
	case domain.PresetTrebleBass:
		c.TrebleBass()
	case domain.PresetVaporwave:
		c.Vaporwave()
	default:
		return false
	}
	return true
}

func (c *FilterChain) mutate(mutate func(*domain.FilterConfiguration)) *FilterChain {
	snapshot := c.session.MutateFilters(mutate)

	slog.Debug("syncing filters", "guild", c.session.GuildID(), "default", snapshot.IsDefault())

	c.dispatcher.Dispatch(c.session.GuildID(), ports.NewFilterUpdate(snapshot))
	return c
}
