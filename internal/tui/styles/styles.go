package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/tubeshelf/internal/domain"
)

// Color palette
var (
	TubeRed    = lipgloss.Color("#FF4E45")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TubeRed)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(TubeRed)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Raw watch status characters (unstyled)
const (
	UnwatchedChar = "●"
	WatchedChar   = "✓"
	SavedChar     = "★"
)

// WatchIndicator returns the character and color for a saved video's status
func WatchIndicator(status domain.WatchStatus) (string, lipgloss.Color) {
	if status == domain.WatchStatusWatched {
		return WatchedChar, Green
	}
	return UnwatchedChar, TubeRed
}

// Tab styles for the watch filter
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(TubeRed).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TubeRed).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(TubeRed)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(TubeRed)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(TubeRed).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(TubeRed).
				Bold(true)
)

// EmptyFaceStyle renders the large face shown for an empty list
var EmptyFaceStyle = lipgloss.NewStyle().
	Foreground(LightGray).
	Bold(true).
	Padding(1, 0)

// Helper functions

// Truncate shortens s to width terminal cells, wide runes counted as two
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad right-pads s with spaces to width terminal cells
func Pad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// RowPart is a piece of a list row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a list row with a uniform background when selected.
// Each part is styled on its own to avoid ANSI reset codes breaking the
// selection background.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight

	var b strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill the rest of the row (minus left/right margin)
	pad := lipgloss.NewStyle()
	margin := lipgloss.NewStyle()
	if selected {
		pad = pad.Background(bg)
		margin = margin.Background(bg)
	}
	if n := width - visibleLen - 2; n > 0 {
		b.WriteString(pad.Render(strings.Repeat(" ", n)))
	}

	m := margin.Render(" ")
	return m + b.String() + m
}
