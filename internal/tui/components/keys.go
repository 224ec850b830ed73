package components

import "github.com/charmbracelet/bubbles/key"

// VideoListKeyMap holds the cursor bindings of a VideoList
type VideoListKeyMap struct {
	Up, Down         key.Binding
	Home, End        key.Binding
	HalfUp, HalfDown key.Binding
	PageUp, PageDown key.Binding
}

func binding(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultVideoListKeyMap returns vim-style bindings plus the arrow and page keys
func DefaultVideoListKeyMap() VideoListKeyMap {
	return VideoListKeyMap{
		Up:       binding("k/↑", "previous video", "k", "up"),
		Down:     binding("j/↓", "next video", "j", "down"),
		Home:     binding("g", "first video", "g", "home"),
		End:      binding("G", "last video", "G", "end"),
		HalfUp:   binding("C-u", "half page up", "ctrl+u"),
		HalfDown: binding("C-d", "half page down", "ctrl+d"),
		PageUp:   binding("PgUp", "page up", "pgup"),
		PageDown: binding("PgDn", "page down", "pgdown"),
	}
}

// VideoListKeys is shared by every VideoList
var VideoListKeys = DefaultVideoListKeyMap()
