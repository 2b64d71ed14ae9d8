package domain

import (
	"strings"
)

// SearchSource is the node search prefix used to look up free-text queries.
type SearchSource string

const (
	// SourceYouTube searches YouTube.
	SourceYouTube SearchSource = "ytsearch"
	// SourceYouTubeMusic searches YouTube Music.
	SourceYouTubeMusic SearchSource = "ytmsearch"
	// SourceSoundCloud searches SoundCloud.
	SourceSoundCloud SearchSource = "scsearch"
	// SourceDirect indicates a direct URL (no search prefix).
	SourceDirect SearchSource = ""
)

// DefaultSearchSource is used when no source is configured.
const DefaultSearchSource = SourceYouTube

// ParseSearchSource converts a prefix such as "ytmsearch" to a SearchSource.
// Unknown prefixes are accepted as-is so plugin sources keep working;
// an empty name yields DefaultSearchSource.
func ParseSearchSource(name string) SearchSource {
	name = strings.TrimSuffix(strings.TrimSpace(name), ":")
	if name == "" {
		return DefaultSearchSource
	}
	return SearchSource(name)
}

// SearchQuery represents a query for the node's track loader.
type SearchQuery struct {
	Query  string       // The search term or URL
	Source SearchSource // The search source
	IsURL  bool         // Whether the query is a direct URL
}

// NewSearchQuery creates a SearchQuery with a specific source.
// URLs are loaded directly and ignore the source.
func NewSearchQuery(input string, source SearchSource) *SearchQuery {
	input = strings.TrimSpace(input)

	if isURL(input) {
		return &SearchQuery{
			Query:  input,
			Source: SourceDirect,
			IsURL:  true,
		}
	}

	if source == SourceDirect {
		source = DefaultSearchSource
	}

	return &SearchQuery{
		Query:  input,
		Source: source,
	}
}

// LavalinkQuery returns the query string formatted for Lavalink.
func (q *SearchQuery) LavalinkQuery() string {
	if q.IsURL {
		return q.Query
	}
	return string(q.Source) + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q *SearchQuery) IsValid() bool {
	return q.Query != ""
}

// isURL checks if the input looks like a URL.
func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}
