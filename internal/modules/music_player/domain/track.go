package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

// Requester identifies who asked for a track.
// It is carried for attribution and forwarded to the search backend untouched.
type Requester struct {
	ID        snowflake.ID
	Name      string
	AvatarURL string
}

// Track represents one playable item loaded from the node.
type Track struct {
	encoded    string // opaque handle the node streams from
	identifier string // backend-assigned id, always paired with encoded

	Title      string
	Author     string
	URI        string
	SourceName string // e.g., "youtube", "spotify", "soundcloud"
	ArtworkURL *string
	ISRC       *string
	Duration   *time.Duration
	IsSeekable bool
	IsStream   bool
	PluginInfo json.RawMessage
	UserData   json.RawMessage
	Requester  Requester
}

// Encoded returns the playable reference of the track.
func (t *Track) Encoded() string {
	return t.encoded
}

// Identifier returns the backend-assigned identifier of the track.
func (t *Track) Identifier() string {
	return t.identifier
}

// ReplaceReference swaps the playable reference and identifier as a pair.
func (t *Track) ReplaceReference(encoded, identifier string) {
	t.encoded = encoded
	t.identifier = identifier
}

// Source returns the parsed TrackSource for this track.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// SearchTerms returns the query used to look the track up again:
// the non-empty parts of author and title joined by " - ".
func (t *Track) SearchTerms() string {
	parts := make([]string, 0, 2)
	for _, part := range []string{t.Author, t.Title} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " - ")
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.encoded != "" && t.Title != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}
	if t.Duration == nil {
		return "--:--"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
