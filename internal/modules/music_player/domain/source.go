package domain

// TrackSource represents the origin platform of a track.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSpotify    TrackSource = "spotify"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceDeezer     TrackSource = "deezer"
	TrackSourceAppleMusic TrackSource = "applemusic"
	TrackSourceTwitch     TrackSource = "twitch"
	TrackSourceHTTP       TrackSource = "http"
	TrackSourceOther      TrackSource = "other"
)

// ParseTrackSource converts a source name string to a TrackSource.
func ParseTrackSource(name string) TrackSource {
	switch source := TrackSource(name); source {
	case TrackSourceYouTube,
		TrackSourceSpotify,
		TrackSourceSoundCloud,
		TrackSourceDeezer,
		TrackSourceAppleMusic,
		TrackSourceTwitch,
		TrackSourceHTTP:
		return source
	default:
		return TrackSourceOther
	}
}

