package proxy

import (
	"html"

	"github.com/mmcdole/tubeshelf/internal/domain"
)

// MapItem converts a raw item to a domain.Video
func MapItem(raw Item, watched bool) domain.Video {
	v := domain.Video{
		ID:           raw.ID.VideoID,
		Title:        html.UnescapeString(raw.Snippet.Title),
		ChannelTitle: html.UnescapeString(raw.Snippet.ChannelTitle),
		PublishedAt:  domain.FormatPublishedAt(raw.Snippet.PublishedAt),
		Watched:      watched,
	}
	if raw.Snippet.Thumbnails.Medium != nil {
		v.ThumbnailURL = raw.Snippet.Thumbnails.Medium.URL
	}
	return v
}

// MapItems converts raw items, dropping any without a video id
// (channel or playlist results).
func MapItems(raw []Item) []domain.Video {
	videos := make([]domain.Video, 0, len(raw))
	for _, item := range raw {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, MapItem(item, false))
	}
	return videos
}
