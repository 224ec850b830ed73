package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/tui/styles"
)

// Spinner frames for loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for the list
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// Row is one video in a VideoList
type Row struct {
	Video          domain.Video
	Saved          bool
	MatchedIndexes []int // byte offsets into Video.Title to highlight
}

// VideoList is a scrollable list of videos
type VideoList struct {
	title     string
	rows      []Row
	showSaved bool // mark saved rows with a star

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Loading state
	loading      bool
	loadingMore  bool
	spinnerFrame int

	emptyText string
}

// NewVideoList creates an empty list. showSaved adds a saved marker column.
func NewVideoList(title string, showSaved bool) *VideoList {
	return &VideoList{
		title:     title,
		showSaved: showSaved,
		emptyText: "No videos",
	}
}

// SetRows replaces the rows, keeping the cursor in range
func (l *VideoList) SetRows(rows []Row) {
	l.rows = rows
	l.clampCursor()
}

// AppendRows adds rows to the end without moving the cursor
func (l *VideoList) AppendRows(rows []Row) {
	l.rows = append(l.rows, rows...)
}

// Reset clears rows and scroll position
func (l *VideoList) Reset() {
	l.rows = nil
	l.cursor = 0
	l.offset = 0
}

// Rows returns the current rows
func (l *VideoList) Rows() []Row {
	return l.rows
}

// Len returns the number of rows
func (l *VideoList) Len() int {
	return len(l.rows)
}

// Selected returns the row under the cursor
func (l *VideoList) Selected() (Row, bool) {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return Row{}, false
	}
	return l.rows[l.cursor], true
}

// SelectedIndex returns the cursor position
func (l *VideoList) SelectedIndex() int {
	return l.cursor
}

// SetSelectedIndex moves the cursor to idx
func (l *VideoList) SetSelectedIndex(idx int) {
	l.cursor = idx
	l.clampCursor()
}

// AtBottom reports whether the cursor is on the last row
func (l *VideoList) AtBottom() bool {
	return len(l.rows) > 0 && l.cursor == len(l.rows)-1
}

func (l *VideoList) SetTitle(title string)    { l.title = title }
func (l *VideoList) SetEmptyText(text string) { l.emptyText = text }
func (l *VideoList) SetLoading(loading bool)  { l.loading = loading }
func (l *VideoList) SetLoadingMore(b bool)    { l.loadingMore = b }
func (l *VideoList) SetFocused(focused bool)  { l.focused = focused }
func (l *VideoList) SetSpinnerFrame(frame int) {
	l.spinnerFrame = frame
}

// IsLoading reports whether the first page is still loading
func (l *VideoList) IsLoading() bool {
	return l.loading
}

// SetSize sets the outer dimensions including the border
func (l *VideoList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// Update handles navigation keys
func (l *VideoList) Update(msg tea.Msg) tea.Cmd {
	count := len(l.rows)
	if count == 0 {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	keys := VideoListKeys
	switch {
	case key.Matches(keyMsg, keys.Down):
		l.cursor++
	case key.Matches(keyMsg, keys.Up):
		l.cursor--
	case key.Matches(keyMsg, keys.Home):
		l.cursor = 0
		l.offset = 0
	case key.Matches(keyMsg, keys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, keys.HalfDown):
		l.cursor += max(l.maxVisible/2, 1)
	case key.Matches(keyMsg, keys.HalfUp):
		l.cursor -= max(l.maxVisible/2, 1)
	case key.Matches(keyMsg, keys.PageDown):
		l.cursor += l.maxVisible
	case key.Matches(keyMsg, keys.PageUp):
		l.cursor -= l.maxVisible
	}
	l.clampCursor()
	return nil
}

func (l *VideoList) clampCursor() {
	if l.cursor >= len(l.rows) {
		l.cursor = len(l.rows) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

func (l *VideoList) recalcMaxVisible() {
	// Interior height minus title line and scroll indicators
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *VideoList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the bordered list
func (l *VideoList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *VideoList) renderContent() string {
	itemWidth := l.width - BorderWidth
	if itemWidth < 20 {
		itemWidth = 20
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))

	if l.loading {
		spinner := spinnerFrames[l.spinnerFrame%len(spinnerFrames)]
		return titleLine + "\n \n" + styles.DimStyle.Render(spinner+" Loading...") + "\n "
	}

	count := len(l.rows)
	if count == 0 {
		return titleLine + "\n \n" + l.emptyText + "\n "
	}

	end := min(l.offset+l.maxVisible, count)
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(l.rows[i], i == l.cursor, itemWidth))
	}

	// Reserve header and footer lines so the layout doesn't shift
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	switch {
	case l.loadingMore:
		spinner := spinnerFrames[l.spinnerFrame%len(spinnerFrames)]
		footer = styles.SpinnerStyle.Render(spinner + " Loading more...")
	case end < count:
		footer = styles.DimStyle.Render("↓ more")
	}

	return titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

func (l *VideoList) renderRow(row Row, selected bool, width int) string {
	v := row.Video

	var parts []styles.RowPart
	used := 2 // left and right margin

	if l.showSaved {
		if row.Saved {
			fg := styles.Blue
			parts = append(parts, styles.RowPart{Text: styles.SavedChar + " ", Foreground: &fg})
		} else {
			parts = append(parts, styles.RowPart{Text: "  "})
		}
		used += 2
	}

	// Only saved videos carry a meaningful watched flag
	if !l.showSaved || row.Saved {
		char, fg := styles.WatchIndicator(v.WatchStatus())
		parts = append(parts, styles.RowPart{Text: char + " ", Foreground: &fg})
	} else {
		parts = append(parts, styles.RowPart{Text: "  "})
	}
	used += 2

	meta := v.ChannelTitle
	if v.PublishedAt != "" {
		meta += " · " + v.PublishedAt
	}
	metaWidth := runewidth.StringWidth(meta)

	titleWidth := width - used - metaWidth - 2
	if titleWidth < 12 {
		// Not enough room for the channel column
		meta = ""
		titleWidth = width - used
	}

	parts = append(parts, titleParts(v.Title, row.MatchedIndexes, titleWidth)...)
	if meta != "" {
		dim := styles.DimGray
		if selected {
			dim = styles.LightGray
		}
		parts = append(parts, styles.RowPart{Text: "  " + meta, Foreground: &dim})
	}

	return styles.RenderListRow(parts, selected, width)
}

// titleParts truncates and pads title to width, splitting it into runs so
// matched bytes render highlighted.
func titleParts(title string, matched []int, width int) []styles.RowPart {
	truncated := styles.Truncate(title, width)
	limit := len(truncated)
	if truncated != title {
		limit = len(strings.TrimSuffix(truncated, "…"))
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		if i < limit {
			hit[i] = true
		}
	}

	var parts []styles.RowPart
	if len(hit) == 0 {
		parts = append(parts, styles.RowPart{Text: truncated})
	} else {
		highlight := styles.TubeRed
		var run strings.Builder
		runHit := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			p := styles.RowPart{Text: run.String()}
			if runHit {
				p.Foreground = &highlight
			}
			parts = append(parts, p)
			run.Reset()
		}
		for i, r := range truncated {
			h := hit[i]
			if h != runHit {
				flush()
				runHit = h
			}
			run.WriteRune(r)
		}
		flush()
	}

	if pad := width - runewidth.StringWidth(truncated); pad > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", pad)})
	}
	return parts
}
