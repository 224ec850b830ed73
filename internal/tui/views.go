package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/tui/styles"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// filterLabels are the tab captions for each watch filter
var filterLabels = map[domain.WatchFilter]string{
	domain.FilterAll:        "All",
	domain.FilterWatchLater: "Watch later",
	domain.FilterWatched:    "Watched",
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	if m.Pane == PaneSearch {
		body = m.ResultsList.View()
	} else {
		body = m.LibraryList.View()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		body,
		m.renderFooter(),
	)

	var overlay string
	switch m.State {
	case StateSearchInput:
		overlay = m.SearchInput.View()
	case StateFilterInput:
		overlay = m.FilterInput.View()
	case StateConfirmDelete:
		overlay = m.renderConfirmDelete()
	case StateHelp:
		overlay = m.renderHelp()
	}
	if overlay == "" {
		return screen
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, overlay,
		lipgloss.WithWhitespaceChars(" "))
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("tubeshelf")

	libTab := styles.InactiveTabStyle.Render("Saved")
	searchTab := styles.InactiveTabStyle.Render("Search")
	if m.Pane == PaneSearch {
		searchTab = styles.ActiveTabStyle.Render("Search")
	} else {
		libTab = styles.ActiveTabStyle.Render("Saved")
	}

	saved, limit := m.Library.Count()
	count := styles.DimStyle.Render(fmt.Sprintf("%d/%d", saved, limit))
	if saved >= limit {
		count = styles.ErrorStyle.Render(fmt.Sprintf("%d/%d full", saved, limit))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", libTab, searchTab, "  ", count)
}

func (m Model) renderTabs() string {
	if m.Pane == PaneSearch {
		if m.Query == "" {
			return styles.DimStyle.Render("No search yet")
		}
		line := styles.SubtitleStyle.Render("Results for ") + styles.AccentStyle.Render(m.Query)
		switch {
		case m.ResultsList.IsLoading():
			line = RenderSpinner(m.SpinnerFrame) + " " + line
		case !m.Pager.HasMore() && len(m.Results) > 0:
			line += styles.DimStyle.Render("  (end of results)")
		}
		return line
	}

	var tabs []string
	for _, f := range []domain.WatchFilter{domain.FilterAll, domain.FilterWatchLater, domain.FilterWatched} {
		if f == m.Filter {
			tabs = append(tabs, styles.ActiveTabStyle.Render(filterLabels[f]))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(filterLabels[f]))
		}
	}
	line := strings.Join(tabs, " ")
	if m.FilterQuery != "" {
		line += "  " + styles.FilterPromptStyle.Render("/") + " " + m.FilterQuery
	}
	return line
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.SuccessStyle.Render(m.StatusMsg)
	}

	bindings := m.keys.LibraryHelp()
	if m.Pane == PaneSearch {
		bindings = m.keys.SearchHelp()
	}
	return renderHints(bindings, m.Width)
}

// renderHints renders "key desc" pairs until the width runs out
func renderHints(bindings []key.Binding, width int) string {
	var b strings.Builder
	used := 0
	for _, kb := range bindings {
		h := kb.Help()
		hint := styles.HelpKeyStyle.Render(h.Key) + " " + styles.HelpDescStyle.Render(h.Desc)
		w := lipgloss.Width(hint) + 2
		if width > 0 && used+w > width {
			break
		}
		if used > 0 {
			b.WriteString("  ")
		}
		b.WriteString(hint)
		used += w
	}
	return b.String()
}

func (m Model) renderConfirmDelete() string {
	title := m.PendingDelete.Title
	if title == "" {
		title = m.PendingDelete.ID
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Delete saved video?"),
		styles.SubtitleStyle.Render(styles.Truncate(title, 40)),
		"",
		styles.HelpKeyStyle.Render("y")+styles.HelpDescStyle.Render(" delete   ")+
			styles.HelpKeyStyle.Render("n")+styles.HelpDescStyle.Render(" cancel"),
	)
	return styles.ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	section := func(name string, bindings []key.Binding) string {
		lines := []string{styles.ModalTitleStyle.Render(name)}
		for _, kb := range bindings {
			h := kb.Help()
			lines = append(lines, styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key))+" "+styles.HelpDescStyle.Render(h.Desc))
		}
		return strings.Join(lines, "\n")
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		section("Saved", m.keys.LibraryHelp()),
		"    ",
		section("Search", m.keys.SearchHelp()),
	)
	return styles.ModalStyle.Render(content + "\n\n" + styles.DimStyle.Render("press any key to close"))
}

func renderEmptyFace(face string) string {
	return styles.EmptyFaceStyle.Render(face) + "\n" + styles.DimStyle.Render("Nothing saved here")
}

// RenderSpinner renders the spinner for frame
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}
