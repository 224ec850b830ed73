package tui

import "github.com/mmcdole/tubeshelf/internal/event"

// ChannelObserver forwards bus events to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- event.Event
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- event.Event) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnEvent sends e to the channel (non-blocking if full).
func (o *ChannelObserver) OnEvent(e event.Event) {
	select {
	case o.ch <- e:
	default: // Non-blocking if channel full
	}
}

// Attach subscribes the observer to every saved-list and search topic
func (o *ChannelObserver) Attach(bus *event.Bus) (detach func()) {
	return bus.SubscribeAll(o.OnEvent,
		event.VideoSaved,
		event.VideoRemoved,
		event.WatchedToggled,
		event.LibraryCleared,
		event.DataLoaded,
	)
}
