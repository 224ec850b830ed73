package tui

import (
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/event"
	"github.com/mmcdole/tubeshelf/internal/search"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LibraryRestoredMsg signals that saved video details have been fetched
type LibraryRestoredMsg struct {
	Videos []domain.Video
	Err    error
}

// SearchPageMsg carries one page of search results
type SearchPageMsg struct {
	Page  search.Page
	First bool // first page of a new query
	Err   error
}

// VideoSavedMsg signals the result of saving a search result
type VideoSavedMsg struct {
	Video domain.Video
	Err   error
}

// WatchedToggledMsg signals the result of a watched toggle
type WatchedToggledMsg struct {
	ID      string
	Watched bool
	Err     error
}

// VideoRemovedMsg signals the result of a delete
type VideoRemovedMsg struct {
	ID  string
	Err error
}

// PlaybackStartedMsg signals that the player was launched
type PlaybackStartedMsg struct {
	Video domain.Video
}

// BusEventMsg wraps an event forwarded from the event bus
type BusEventMsg struct {
	Event event.Event
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
