package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/event"
	"github.com/mmcdole/tubeshelf/internal/library"
	"github.com/mmcdole/tubeshelf/internal/player"
	"github.com/mmcdole/tubeshelf/internal/search"
)

// Command factories for async operations

// RestoreLibraryCmd fetches details for every saved video
func RestoreLibraryCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		videos, err := svc.Restore(ctx)
		return LibraryRestoredMsg{Videos: videos, Err: err}
	}
}

// StartSearchCmd submits a new query and fetches its first page
func StartSearchCmd(pager *search.Pager, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		page, err := pager.StartQuery(ctx, query)
		return SearchPageMsg{Page: page, First: true, Err: err}
	}
}

// NextPageCmd fetches the next page of the current query
func NextPageCmd(pager *search.Pager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		page, err := pager.FetchNextPage(ctx)
		return SearchPageMsg{Page: page, Err: err}
	}
}

// SaveVideoCmd bookmarks a search result
func SaveVideoCmd(svc *library.Service, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		video, err := svc.Save(ctx, id)
		return VideoSavedMsg{Video: video, Err: err}
	}
}

// ToggleWatchedCmd flips the watched flag of a saved video
func ToggleWatchedCmd(svc *library.Service, id string) tea.Cmd {
	return func() tea.Msg {
		watched, err := svc.ToggleWatched(id)
		return WatchedToggledMsg{ID: id, Watched: watched, Err: err}
	}
}

// RemoveVideoCmd deletes a saved video
func RemoveVideoCmd(svc *library.Service, id string) tea.Cmd {
	return func() tea.Msg {
		return VideoRemovedMsg{ID: id, Err: svc.Remove(id)}
	}
}

// PlayVideoCmd opens a video in the external player
func PlayVideoCmd(launcher *player.Launcher, video domain.Video) tea.Cmd {
	return func() tea.Msg {
		if err := launcher.Play(video); err != nil {
			return ErrMsg{Err: err, Context: "playback failed"}
		}
		return PlaybackStartedMsg{Video: video}
	}
}

// WaitForEventCmd blocks until the observer forwards a bus event
func WaitForEventCmd(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return BusEventMsg{Event: e}
	}
}

// TickCmd creates a tick command for animations
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
