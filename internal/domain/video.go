package domain

import (
	"fmt"
	"slices"
	"strings"
)

// WatchURLBase is the public page a video id resolves to.
const WatchURLBase = "https://www.youtube.com/watch?v="

// Video is a normalized search or lookup result
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	ThumbnailURL string `json:"thumbnailUrl"`
	PublishedAt  string `json:"publishedAt"` // display form, see FormatPublishedAt
	Watched      bool   `json:"watched"`
}

// WatchURL returns the page the video plays on
func (v Video) WatchURL() string {
	return WatchURLBase + v.ID
}

// WatchStatus returns the status used for indicator rendering
func (v Video) WatchStatus() WatchStatus {
	if v.Watched {
		return WatchStatusWatched
	}
	return WatchStatusUnwatched
}

// WatchStatus is the indicator state of a saved video
type WatchStatus int

const (
	WatchStatusUnwatched WatchStatus = iota
	WatchStatusWatched
)

// SavedRecord is the persisted state of one saved video.
type SavedRecord struct {
	Watched bool `json:"watched"`
}

// SavedSet maps a video id to its saved record. This is the exact JSON shape
// kept under the saved-list key.
type SavedSet map[string]SavedRecord

// Clone returns an independent copy
func (s SavedSet) Clone() SavedSet {
	out := make(SavedSet, len(s))
	for id, rec := range s {
		out[id] = rec
	}
	return out
}

// Has reports whether id is saved
func (s SavedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the saved ids in lexical order
func (s SavedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// WatchFilter selects saved videos by watched state
type WatchFilter int

const (
	FilterAll WatchFilter = iota
	FilterWatchLater
	FilterWatched
)

func (f WatchFilter) String() string {
	switch f {
	case FilterWatchLater:
		return "watch-later"
	case FilterWatched:
		return "watched"
	default:
		return "all"
	}
}

// Matches reports whether a video with the given watched flag passes the filter
func (f WatchFilter) Matches(watched bool) bool {
	switch f {
	case FilterWatchLater:
		return !watched
	case FilterWatched:
		return watched
	default:
		return true
	}
}

// ParseWatchFilter parses the names returned by WatchFilter.String
func ParseWatchFilter(s string) (WatchFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "watch-later", "later", "unwatched":
		return FilterWatchLater, nil
	case "watched":
		return FilterWatched, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

// FormatPublishedAt renders an ISO-8601 timestamp as "YYYY년 MM월 DD일".
// Only the date part is used; missing parts render as empty strings.
func FormatPublishedAt(iso string) string {
	date, _, _ := strings.Cut(iso, "T")
	parts := strings.Split(strings.TrimSpace(date), "-")
	var ymd [3]string
	copy(ymd[:], parts)
	return fmt.Sprintf("%s년 %s월 %s일", ymd[0], ymd[1], ymd[2])
}
