package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/event"
	"github.com/mmcdole/tubeshelf/internal/library"
	"github.com/mmcdole/tubeshelf/internal/player"
	"github.com/mmcdole/tubeshelf/internal/search"
	"github.com/mmcdole/tubeshelf/internal/tui/components"
)

// ApplicationState represents which overlay, if any, owns the keyboard
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearchInput
	StateFilterInput
	StateConfirmDelete
	StateHelp
)

// Pane is the list shown in the main area
type Pane int

const (
	PaneLibrary Pane = iota
	PaneSearch
)

// Vertical chrome: header line, tab line, footer line
const ChromeHeight = 3

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Pane  Pane
	Ready bool

	// Services
	Library  *library.Service
	Pager    *search.Pager
	History  *search.History
	Launcher *player.Launcher

	events <-chan event.Event
	keys   KeyMap

	// UI Components
	LibraryList *components.VideoList
	ResultsList *components.VideoList
	SearchInput components.InputModal
	FilterInput components.InputModal

	// Saved list view state
	Filter      domain.WatchFilter
	FilterQuery string
	EmptyFace   string
	restored    bool

	// Search state
	Query       string
	Results     []domain.Video
	LoadingMore bool

	// Pending delete awaiting y/n
	PendingDelete domain.Video

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates a new application model. events may be nil.
func NewModel(
	lib *library.Service,
	pager *search.Pager,
	history *search.History,
	launcher *player.Launcher,
	events <-chan event.Event,
) Model {
	var suggest func(string) []string
	if history != nil {
		suggest = history.Suggest
	}

	libraryList := components.NewVideoList("Saved", false)
	libraryList.SetLoading(true)
	libraryList.SetFocused(true)

	resultsList := components.NewVideoList("Search", true)
	resultsList.SetEmptyText("Press s to search")
	resultsList.SetFocused(true)

	return Model{
		State:       StateBrowsing,
		Pane:        PaneLibrary,
		Library:     lib,
		Pager:       pager,
		History:     history,
		Launcher:    launcher,
		events:      events,
		keys:        DefaultKeyMap(),
		LibraryList: libraryList,
		ResultsList: resultsList,
		SearchInput: components.NewInputModal("Search videos...", suggest),
		FilterInput: components.NewInputModal("Filter by title or channel...", nil),
		Filter:      domain.FilterAll,
		EmptyFace:   library.EmptyFace(),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		RestoreLibraryCmd(m.Library),
		TickCmd(100 * time.Millisecond),
	}
	if m.events != nil {
		cmds = append(cmds, WaitForEventCmd(m.events))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.LibraryList.SetSpinnerFrame(m.SpinnerFrame)
		m.ResultsList.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100 * time.Millisecond)

	case LibraryRestoredMsg:
		m.restored = true
		m.LibraryList.SetLoading(false)
		m.refreshLibrary()
		if msg.Err != nil {
			return m.setStatus("Could not load saved videos: "+msg.Err.Error(), true)
		}
		return m, nil

	case SearchPageMsg:
		return m.handleSearchPage(msg)

	case VideoSavedMsg:
		m.refreshLibrary()
		m.refreshResults()
		switch {
		case errors.Is(msg.Err, domain.ErrCapacityExceeded):
			saved, limit := m.Library.Count()
			return m.setStatus(fmt.Sprintf("Saved list is full (%d/%d). Remove a video first.", saved, limit), true)
		case errors.Is(msg.Err, domain.ErrSourceUnavailable):
			return m.setStatus("Saved, but details could not be fetched", true)
		case msg.Err != nil:
			return m.setStatus("Save failed: "+msg.Err.Error(), true)
		}
		return m.setStatus("Saved: "+msg.Video.Title, false)

	case WatchedToggledMsg:
		m.refreshLibrary()
		m.refreshResults()
		if msg.Err != nil {
			return m.setStatus("Update failed: "+msg.Err.Error(), true)
		}
		if msg.Watched {
			return m.setStatus("Marked watched", false)
		}
		return m.setStatus("Marked unwatched", false)

	case VideoRemovedMsg:
		m.refreshLibrary()
		m.refreshResults()
		if msg.Err != nil {
			return m.setStatus("Delete failed: "+msg.Err.Error(), true)
		}
		return m.setStatus("Deleted", false)

	case PlaybackStartedMsg:
		return m.setStatus("Playing: "+msg.Video.Title, false)

	case BusEventMsg:
		// Saved state may have changed underneath either list
		m.refreshLibrary()
		m.refreshResults()
		return m, WaitForEventCmd(m.events)

	case ErrMsg:
		return m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	d := 3 * time.Second
	if isErr {
		d = 5 * time.Second
	}
	return m, ClearStatusCmd(d)
}

func (m Model) handleSearchPage(msg SearchPageMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err, domain.ErrStaleResponse) {
		return m, nil
	}
	if msg.Page.Query != m.Query {
		return m, nil
	}

	if msg.First {
		m.ResultsList.SetLoading(false)
	} else {
		m.LoadingMore = false
		m.ResultsList.SetLoadingMore(false)
	}

	if msg.Err != nil {
		return m.setStatus("Search failed: "+msg.Err.Error(), true)
	}

	if msg.First {
		m.Results = msg.Page.Items
		m.ResultsList.Reset()
	} else {
		m.Results = append(m.Results, msg.Page.Items...)
	}
	m.refreshResults()

	if len(m.Results) == 0 {
		m.ResultsList.SetEmptyText(fmt.Sprintf("No results for %q", m.Query))
	}
	return m, nil
}

// refreshLibrary rebuilds the saved list rows from the library service
func (m *Model) refreshLibrary() {
	entries := m.Library.List(m.Filter, m.FilterQuery)
	rows := make([]components.Row, len(entries))
	for i, e := range entries {
		rows[i] = components.Row{Video: e.Video, Saved: true, MatchedIndexes: e.MatchedIndexes}
	}
	m.LibraryList.SetRows(rows)

	saved, limit := m.Library.Count()
	m.LibraryList.SetTitle(fmt.Sprintf("Saved %d/%d", saved, limit))
	if m.FilterQuery != "" {
		m.LibraryList.SetEmptyText(fmt.Sprintf("No saved video matches %q", m.FilterQuery))
	} else {
		m.LibraryList.SetEmptyText(renderEmptyFace(m.EmptyFace))
	}
}

// refreshResults rebuilds search rows with the live saved state of each video
func (m *Model) refreshResults() {
	rows := make([]components.Row, len(m.Results))
	for i, v := range m.Results {
		saved, watched := m.Pager.Status(v.ID)
		v.Watched = watched
		rows[i] = components.Row{Video: v, Saved: saved}
	}
	m.ResultsList.SetRows(rows)
	if m.Query != "" {
		m.ResultsList.SetTitle(fmt.Sprintf("Search: %s (%d)", m.Query, len(rows)))
	}
}

func (m *Model) updateLayout() {
	h := m.Height - ChromeHeight
	if h < 5 {
		h = 5
	}
	m.LibraryList.SetSize(m.Width, h)
	m.ResultsList.SetSize(m.Width, h)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.State {
	case StateSearchInput:
		return m.handleSearchInput(msg)
	case StateFilterInput:
		return m.handleFilterInput(msg)
	case StateConfirmDelete:
		return m.handleConfirmDelete(msg)
	case StateHelp:
		m.State = StateBrowsing
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.State = StateHelp
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.State = StateSearchInput
		m.SearchInput.Show("Search YouTube", "")
		return m, nil
	}

	if m.Pane == PaneSearch {
		return m.handleSearchPane(msg)
	}
	return m.handleLibraryPane(msg)
}

func (m Model) handleLibraryPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.Filter = (m.Filter + 1) % 3
		m.EmptyFace = library.EmptyFace()
		m.LibraryList.SetSelectedIndex(0)
		m.refreshLibrary()
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.Filter = (m.Filter + 2) % 3
		m.EmptyFace = library.EmptyFace()
		m.LibraryList.SetSelectedIndex(0)
		m.refreshLibrary()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.State = StateFilterInput
		m.FilterInput.Show("Filter saved videos", m.FilterQuery)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.FilterQuery != "" {
			m.FilterQuery = ""
			m.refreshLibrary()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleWatched):
		if row, ok := m.LibraryList.Selected(); ok {
			return m, ToggleWatchedCmd(m.Library, row.Video.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.LibraryList.Selected(); ok {
			m.PendingDelete = row.Video
			m.State = StateConfirmDelete
		}
		return m, nil

	case key.Matches(msg, m.keys.Play, m.keys.Save):
		if row, ok := m.LibraryList.Selected(); ok {
			return m, PlayVideoCmd(m.Launcher, row.Video)
		}
		return m, nil
	}

	return m, m.LibraryList.Update(msg)
}

func (m Model) handleSearchPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
		m.Pane = PaneLibrary
		m.refreshLibrary()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		row, ok := m.ResultsList.Selected()
		if !ok {
			return m, nil
		}
		if row.Saved {
			return m.setStatus("Already saved", false)
		}
		return m, SaveVideoCmd(m.Library, row.Video.ID)

	case key.Matches(msg, m.keys.Play):
		if row, ok := m.ResultsList.Selected(); ok {
			return m, PlayVideoCmd(m.Launcher, row.Video)
		}
		return m, nil
	}

	cmd := m.ResultsList.Update(msg)
	if m.ResultsList.AtBottom() && m.Pager.HasMore() && !m.LoadingMore {
		m.LoadingMore = true
		m.ResultsList.SetLoadingMore(true)
		return m, NextPageCmd(m.Pager)
	}
	return m, cmd
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.SearchInput, cmd, submitted = m.SearchInput.Update(msg)
	if !m.SearchInput.IsVisible() {
		m.State = StateBrowsing
		return m, cmd
	}
	if !submitted {
		return m, cmd
	}

	query := strings.TrimSpace(m.SearchInput.Value())
	m.SearchInput.Hide()
	m.State = StateBrowsing
	if query == "" {
		return m, nil
	}

	m.Pane = PaneSearch
	m.Query = query
	m.Results = nil
	m.LoadingMore = false
	m.ResultsList.Reset()
	m.ResultsList.SetLoadingMore(false)
	m.ResultsList.SetLoading(true)
	m.ResultsList.SetTitle("Search: " + query)
	return m, StartSearchCmd(m.Pager, query)
}

func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.FilterInput, cmd, submitted = m.FilterInput.Update(msg)
	if !m.FilterInput.IsVisible() {
		// esc drops the filter
		m.State = StateBrowsing
		m.FilterQuery = ""
		m.refreshLibrary()
		return m, cmd
	}

	m.FilterQuery = m.FilterInput.Value()
	m.LibraryList.SetSelectedIndex(0)
	m.refreshLibrary()
	if submitted {
		m.FilterInput.Hide()
		m.State = StateBrowsing
	}
	return m, cmd
}

func (m Model) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.PendingDelete.ID
		m.PendingDelete = domain.Video{}
		m.State = StateBrowsing
		return m, RemoveVideoCmd(m.Library, id)
	case key.Matches(msg, m.keys.Deny):
		m.PendingDelete = domain.Video{}
		m.State = StateBrowsing
		return m.setStatus("Delete cancelled", false)
	}
	return m, nil
}
