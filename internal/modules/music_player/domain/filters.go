package domain

import "slices"

// EqualizerBand sets the gain of one of the node's 15 equalizer bands (0-14).
// Gain ranges from -0.25 (muted) to 1.0; 0 leaves the band unchanged.
type EqualizerBand struct {
	Band int     `json:"band"`
	Gain float64 `json:"gain"`
}

// Karaoke removes the vocal band from the signal.
// Nil fields keep the node's defaults.
type Karaoke struct {
	Level       *float64 `json:"level,omitempty"`
	MonoLevel   *float64 `json:"monoLevel,omitempty"`
	FilterBand  *float64 `json:"filterBand,omitempty"`
	FilterWidth *float64 `json:"filterWidth,omitempty"`
}

// Timescale changes speed, pitch and rate of playback.
type Timescale struct {
	Speed *float64 `json:"speed,omitempty"`
	Pitch *float64 `json:"pitch,omitempty"`
	Rate  *float64 `json:"rate,omitempty"`
}

// Vibrato oscillates the pitch.
type Vibrato struct {
	Frequency *float64 `json:"frequency,omitempty"`
	Depth     *float64 `json:"depth,omitempty"`
}

// Rotation pans the audio around the stereo channels.
type Rotation struct {
	RotationHz *float64 `json:"rotationHz,omitempty"`
}

// FilterConfiguration is the audio filter state of one playback session.
// A nil group is unset and is sent to the node as disabled.
type FilterConfiguration struct {
	Volume    *float64 // node filter volume last synced, 1.0 = 100%
	Equalizer []EqualizerBand
	Karaoke   *Karaoke
	Timescale *Timescale
	Vibrato   *Vibrato
	Rotation  *Rotation
}

// DefaultFilterConfiguration returns a configuration with every group unset.
func DefaultFilterConfiguration() FilterConfiguration {
	return FilterConfiguration{
		Equalizer: []EqualizerBand{},
	}
}

// IsDefault returns true if no filter group is set.
func (c FilterConfiguration) IsDefault() bool {
	return len(c.Equalizer) == 0 &&
		c.Karaoke == nil &&
		c.Timescale == nil &&
		c.Vibrato == nil &&
		c.Rotation == nil
}

// Clone returns a deep copy of the configuration.
func (c FilterConfiguration) Clone() FilterConfiguration {
	clone := FilterConfiguration{
		Volume:    clonePtr(c.Volume),
		Equalizer: slices.Clone(c.Equalizer),
		Karaoke:   c.Karaoke.Clone(),
		Timescale: c.Timescale.Clone(),
		Vibrato:   c.Vibrato.Clone(),
		Rotation:  c.Rotation.Clone(),
	}
	if clone.Equalizer == nil {
		clone.Equalizer = []EqualizerBand{}
	}
	return clone
}

// Clone returns a deep copy of k, or nil if k is nil.
func (k *Karaoke) Clone() *Karaoke {
	if k == nil {
		return nil
	}
	return &Karaoke{
		Level:       clonePtr(k.Level),
		MonoLevel:   clonePtr(k.MonoLevel),
		FilterBand:  clonePtr(k.FilterBand),
		FilterWidth: clonePtr(k.FilterWidth),
	}
}

// Clone returns a deep copy of t, or nil if t is nil.
func (t *Timescale) Clone() *Timescale {
	if t == nil {
		return nil
	}
	return &Timescale{
		Speed: clonePtr(t.Speed),
		Pitch: clonePtr(t.Pitch),
		Rate:  clonePtr(t.Rate),
	}
}

// Clone returns a deep copy of v, or nil if v is nil.
func (v *Vibrato) Clone() *Vibrato {
	if v == nil {
		return nil
	}
	return &Vibrato{
		Frequency: clonePtr(v.Frequency),
		Depth:     clonePtr(v.Depth),
	}
}

// Clone returns a deep copy of r, or nil if r is nil.
func (r *Rotation) Clone() *Rotation {
	if r == nil {
		return nil
	}
	return &Rotation{RotationHz: clonePtr(r.RotationHz)}
}

// Float returns a pointer to v, for filling optional filter fields.
func Float(v float64) *float64 {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
