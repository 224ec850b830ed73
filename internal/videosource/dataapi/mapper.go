package dataapi

import (
	"html"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"google.golang.org/api/youtube/v3"
)

// MapSearchResult converts a search result to a domain.Video
func MapSearchResult(r *youtube.SearchResult, watched bool) domain.Video {
	v := domain.Video{Watched: watched}
	if r == nil {
		return v
	}
	if r.Id != nil {
		v.ID = r.Id.VideoId
	}
	if s := r.Snippet; s != nil {
		v.Title = html.UnescapeString(s.Title)
		v.ChannelTitle = html.UnescapeString(s.ChannelTitle)
		v.PublishedAt = domain.FormatPublishedAt(s.PublishedAt)
		v.ThumbnailURL = mediumThumbnail(s.Thumbnails)
	}
	return v
}

// MapVideo converts a video resource to a domain.Video
func MapVideo(r *youtube.Video, watched bool) domain.Video {
	v := domain.Video{Watched: watched}
	if r == nil {
		return v
	}
	v.ID = r.Id
	if s := r.Snippet; s != nil {
		v.Title = html.UnescapeString(s.Title)
		v.ChannelTitle = html.UnescapeString(s.ChannelTitle)
		v.PublishedAt = domain.FormatPublishedAt(s.PublishedAt)
		v.ThumbnailURL = mediumThumbnail(s.Thumbnails)
	}
	return v
}

func mediumThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil || t.Medium == nil {
		return ""
	}
	return t.Medium.Url
}
