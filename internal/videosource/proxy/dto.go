package proxy

import (
	"bytes"
	"encoding/json"
)

// ListResponse is the body of both the search and the videos endpoint
type ListResponse struct {
	Items         []Item `json:"items"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// Item is one search result or video resource
type Item struct {
	ID      ItemID  `json:"id"`
	Snippet Snippet `json:"snippet"`
}

// ItemID accepts both id shapes: search results carry
// {"kind": "youtube#video", "videoId": "..."}, video resources a bare string.
type ItemID struct {
	Kind    string
	VideoID string
}

func (i *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &i.VideoID)
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var obj struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	i.Kind = obj.Kind
	i.VideoID = obj.VideoID
	return nil
}

// Snippet holds the display fields of an item
type Snippet struct {
	PublishedAt  string     `json:"publishedAt"`
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   Thumbnails `json:"thumbnails"`
}

type Thumbnails struct {
	Default *Thumbnail `json:"default,omitempty"`
	Medium  *Thumbnail `json:"medium,omitempty"`
	High    *Thumbnail `json:"high,omitempty"`
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ErrorResponse is the body of a failed request
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
