package domain

import "slices"

// FilterPreset names a canned filter combination.
type FilterPreset string

const (
	PresetEightD     FilterPreset = "8d"
	PresetBassBoost  FilterPreset = "bassboost"
	PresetNightcore  FilterPreset = "nightcore"
	PresetSlowmo     FilterPreset = "slowmo"
	PresetSoft       FilterPreset = "soft"
	PresetTV         FilterPreset = "tv"
	PresetTrebleBass FilterPreset = "treblebass"
	PresetVaporwave  FilterPreset = "vaporwave"
)

var filterPresets = []FilterPreset{
	PresetEightD,
	PresetBassBoost,
	PresetNightcore,
	PresetSlowmo,
	PresetSoft,
	PresetTV,
	PresetTrebleBass,
	PresetVaporwave,
}

// FilterPresets returns all known presets in display order.
func FilterPresets() []FilterPreset {
	return slices.Clone(filterPresets)
}

// ParseFilterPreset converts a preset name to a FilterPreset.
func ParseFilterPreset(name string) (FilterPreset, bool) {
	preset := FilterPreset(name)
	if slices.Contains(filterPresets, preset) {
		return preset, true
	}
	return "", false
}

// Equalizer tables used by the presets.
var (
	bassBoostBands = []float64{0.2, 0.15, 0.1, 0.05, 0.0, -0.05, -0.1, -0.1, -0.1, -0.1, -0.1, -0.1, -0.1, -0.1, -0.1}
	softBands      = []float64{0, 0, 0, 0, 0, 0, 0, 0, -0.25, -0.25, -0.25, -0.25, -0.25, -0.25, 0}
	tvBands        = []float64{0, 0, 0, 0, 0, 0, 0, 0.65, 0.65, 0.65, 0.65, 0.65, 0.65, 0.65, 0}
	trebleBands    = []float64{0.6, 0.67, 0.67, 0, -0.5, 0.15, -0.45, 0.23, 0.35, 0.45, 0.55, 0.6, 0.55, 0, 0}
	vaporwaveBands = []float64{0.3, 0.3}
)

// BassBoostEqualizer lifts the low bands and trims the rest.
func BassBoostEqualizer() []EqualizerBand { return bands(bassBoostBands) }

// SoftEqualizer dampens the high bands.
func SoftEqualizer() []EqualizerBand { return bands(softBands) }

// TVEqualizer emphasises the upper mids like a television speaker.
func TVEqualizer() []EqualizerBand { return bands(tvBands) }

// TrebleBassEqualizer lifts both ends of the spectrum.
func TrebleBassEqualizer() []EqualizerBand { return bands(trebleBands) }

// VaporwaveEqualizer lifts the two lowest bands.
func VaporwaveEqualizer() []EqualizerBand { return bands(vaporwaveBands) }

func bands(gains []float64) []EqualizerBand {
	result := make([]EqualizerBand, len(gains))
	for i, gain := range gains {
		result[i] = EqualizerBand{Band: i, Gain: gain}
	}
	return result
}
