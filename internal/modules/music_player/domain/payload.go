package domain

import (
	"bytes"
	"fmt"

	"github.com/disgoorg/json"
)

// LoadType tags the shape of a load result. Values are passed through verbatim
// from the node, so unknown values are valid.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// RawTrackInfo is the "info" object of a track as sent by the node.
type RawTrackInfo struct {
	Identifier string  `json:"identifier"`
	IsSeekable bool    `json:"isSeekable"`
	Author     string  `json:"author"`
	Length     *int64  `json:"length"` // milliseconds
	IsStream   bool    `json:"isStream"`
	Title      string  `json:"title"`
	URI        string  `json:"uri"`
	SourceName string  `json:"sourceName"`
	ArtworkURL *string `json:"artworkUrl"`
	ISRC       *string `json:"isrc"`
}

// RawTrack is a track as sent by the node.
type RawTrack struct {
	Encoded    string          `json:"encoded"`
	Info       RawTrackInfo    `json:"info"`
	PluginInfo json.RawMessage `json:"pluginInfo,omitempty"`
	UserData   json.RawMessage `json:"userData,omitempty"`
}

// PlaylistInfo is the playlist metadata of a playlist load result.
type PlaylistInfo struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

// LoadData is the decoded "data" member of a load result.
// It is one of TrackData, SearchData, PlaylistData, EmptyData or ErrorData.
type LoadData interface {
	loadData()
}

// TrackData holds a single track.
type TrackData RawTrack

// SearchData holds an ordered list of search candidates.
type SearchData []RawTrack

// PlaylistData holds a playlist and its tracks.
type PlaylistData struct {
	Info       *PlaylistInfo
	PluginInfo json.RawMessage
	Tracks     []RawTrack
}

// EmptyData means the node found nothing.
type EmptyData struct{}

// ErrorData is the exception reported by the node when loading failed.
type ErrorData struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

func (TrackData) loadData()    {}
func (SearchData) loadData()   {}
func (PlaylistData) loadData() {}
func (EmptyData) loadData()    {}
func (ErrorData) loadData()    {}

// RawLoadResult is a load result as sent by the node, with its data decoded
// into the matching LoadData case.
type RawLoadResult struct {
	LoadType LoadType
	Data     LoadData
}

// ParseLoadResult decodes a load result payload.
// Only payloads that are not a JSON object at all are rejected; missing or
// malformed members degrade to empty data.
func ParseLoadResult(payload []byte) (RawLoadResult, error) {
	var result RawLoadResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return RawLoadResult{}, fmt.Errorf("failed to decode load result: %w", err)
	}
	return result, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawLoadResult) UnmarshalJSON(b []byte) error {
	var envelope struct {
		LoadType LoadType        `json:"loadType"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return err
	}

	r.LoadType = envelope.LoadType
	r.Data = decodeLoadData(envelope.LoadType, envelope.Data)
	return nil
}

func decodeLoadData(loadType LoadType, data json.RawMessage) LoadData {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return EmptyData{}
	}

	switch loadType {
	case LoadTypePlaylist:
		return decodePlaylist(data)
	case LoadTypeEmpty:
		return EmptyData{}
	case LoadTypeError:
		var exception ErrorData
		_ = json.Unmarshal(data, &exception)
		return exception
	}

	// track, search and anything unknown are told apart by shape
	switch data[0] {
	case '[':
		return decodeSearch(data)
	case '{':
		return decodeTrack(data)
	default:
		return EmptyData{}
	}
}

func decodePlaylist(data json.RawMessage) PlaylistData {
	var raw struct {
		Info         *PlaylistInfo     `json:"info"`
		PlaylistInfo *PlaylistInfo     `json:"playlistInfo"`
		PluginInfo   json.RawMessage   `json:"pluginInfo"`
		Tracks       []json.RawMessage `json:"tracks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return PlaylistData{}
	}

	info := raw.PlaylistInfo
	if info == nil {
		info = raw.Info
	}

	return PlaylistData{
		Info:       info,
		PluginInfo: raw.PluginInfo,
		Tracks:     decodeTracks(raw.Tracks),
	}
}

func decodeSearch(data json.RawMessage) LoadData {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return EmptyData{}
	}
	return SearchData(decodeTracks(elements))
}

func decodeTrack(data json.RawMessage) LoadData {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return EmptyData{}
	}
	_, hasEncoded := probe["encoded"]
	_, hasInfo := probe["info"]
	if !hasEncoded && !hasInfo {
		return EmptyData{}
	}

	var track RawTrack
	if err := json.Unmarshal(data, &track); err != nil {
		return EmptyData{}
	}
	return TrackData(track)
}

// decodeTracks decodes each element independently and skips the ones that
// are not track objects.
func decodeTracks(elements []json.RawMessage) []RawTrack {
	tracks := make([]RawTrack, 0, len(elements))
	for _, element := range elements {
		element = bytes.TrimSpace(element)
		if len(element) == 0 || element[0] != '{' {
			continue
		}

		var track RawTrack
		if err := json.Unmarshal(element, &track); err != nil {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}
