package domain

import "time"

// LoadResult is a normalized load result: a uniform track list regardless of
// which shape the node answered with.
type LoadResult struct {
	LoadType     LoadType
	Tracks       []*Track
	PlaylistInfo *PlaylistInfo // set only for playlists
	Exception    *ErrorData    // set only for failed loads
	Data         LoadData      // decoded payload the tracks were built from
}

// IsEmpty returns true if the result carries no tracks.
func (r *LoadResult) IsEmpty() bool {
	return r == nil || len(r.Tracks) == 0
}

// NormalizeLoadResult converts a decoded load result into a LoadResult.
// Every track is built through NewTrack and tagged with the requester.
func NormalizeLoadResult(raw RawLoadResult, requester Requester) *LoadResult {
	result := &LoadResult{
		LoadType: raw.LoadType,
		Tracks:   []*Track{},
		Data:     raw.Data,
	}

	switch data := raw.Data.(type) {
	case TrackData:
		result.Tracks = []*Track{NewTrack(RawTrack(data), requester)}
	case SearchData:
		result.Tracks = newTracks(data, requester)
	case PlaylistData:
		result.Tracks = newTracks(data.Tracks, requester)
		result.PlaylistInfo = data.Info
	case ErrorData:
		result.Exception = &data
	}

	return result
}

func newTracks(raws []RawTrack, requester Requester) []*Track {
	tracks := make([]*Track, len(raws))
	for i, raw := range raws {
		tracks[i] = NewTrack(raw, requester)
	}
	return tracks
}

// NewTrack builds a Track from a single track payload, copying its fields verbatim.
func NewTrack(raw RawTrack, requester Requester) *Track {
	track := trackFromInfo(raw.Info, requester)
	track.encoded = raw.Encoded
	track.PluginInfo = raw.PluginInfo
	track.UserData = raw.UserData
	return track
}

// NewTrackFromList builds a Track from the first payload of a list.
// An empty list yields a track that only carries the requester.
func NewTrackFromList(raws []RawTrack, requester Requester) *Track {
	if len(raws) == 0 {
		return &Track{Requester: requester}
	}
	return NewTrack(raws[0], requester)
}

// NewPlaylistPreview builds a single representative Track for a playlist from
// the info of its first entry. The remaining entries are ignored, and since
// info carries no playable reference the preview has none either.
func NewPlaylistPreview(playlist PlaylistData, requester Requester) *Track {
	if len(playlist.Tracks) == 0 {
		return &Track{Requester: requester}
	}
	return trackFromInfo(playlist.Tracks[0].Info, requester)
}

func trackFromInfo(info RawTrackInfo, requester Requester) *Track {
	track := &Track{
		identifier: info.Identifier,
		Title:      info.Title,
		Author:     info.Author,
		URI:        info.URI,
		SourceName: info.SourceName,
		ArtworkURL: info.ArtworkURL,
		ISRC:       info.ISRC,
		IsSeekable: info.IsSeekable,
		IsStream:   info.IsStream,
		Requester:  requester,
	}
	if info.Length != nil {
		duration := time.Duration(*info.Length) * time.Millisecond
		track.Duration = &duration
	}
	return track
}
