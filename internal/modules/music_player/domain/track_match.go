package domain

import (
	"strings"
	"time"
)

// DurationTolerance is how far a candidate's duration may deviate from the
// original track and still count as the same recording.
const DurationTolerance = 2 * time.Second

// topicSuffix marks auto-generated artist channels on YouTube.
const topicSuffix = " - Topic"

// MatchKind records which rule selected a re-resolution candidate.
type MatchKind string

const (
	MatchNone          MatchKind = "none"
	MatchAuthorOrTitle MatchKind = "author_or_title"
	MatchDuration      MatchKind = "duration"
	MatchFirst         MatchKind = "first"
)

// SelectCandidate picks the search candidate that best stands in for track.
//
// Rules are tried in order:
//  1. when the author is known, the first candidate whose author equals the
//     author or its " - Topic" channel, or whose title equals the title;
//  2. when the duration is known, the first candidate within DurationTolerance;
//  3. the first candidate.
//
// Comparisons are case-insensitive and on the whole string.
// It returns nil and MatchNone when there are no candidates.
func SelectCandidate(track *Track, candidates []*Track) (*Track, MatchKind) {
	candidates = nonNil(candidates)
	if len(candidates) == 0 {
		return nil, MatchNone
	}

	if track.Author != "" {
		aliases := []string{track.Author, track.Author + topicSuffix}
		for _, candidate := range candidates {
			if matchesAny(candidate.Author, aliases) ||
				strings.EqualFold(candidate.Title, track.Title) {
				return candidate, MatchAuthorOrTitle
			}
		}
	}

	if track.Duration != nil && *track.Duration != 0 {
		lower := *track.Duration - DurationTolerance
		upper := *track.Duration + DurationTolerance
		for _, candidate := range candidates {
			if candidate.Duration == nil {
				continue
			}
			if *candidate.Duration >= lower && *candidate.Duration <= upper {
				return candidate, MatchDuration
			}
		}
	}

	return candidates[0], MatchFirst
}

func matchesAny(value string, names []string) bool {
	for _, name := range names {
		if strings.EqualFold(value, name) {
			return true
		}
	}
	return false
}

func nonNil(tracks []*Track) []*Track {
	result := make([]*Track, 0, len(tracks))
	for _, t := range tracks {
		if t != nil {
			result = append(result, t)
		}
	}
	return result
}
