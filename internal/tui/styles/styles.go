package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Accent     = lipgloss.Color("#3B82F6")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Yellow     = lipgloss.Color("#FDE68A")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent)

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
			Foreground(Accent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Availability marks
const (
	AvailableChar   = "✓"
	UnavailableChar = "✖"
)

var (
	AvailableStyle   = lipgloss.NewStyle().Foreground(Green)
	UnavailableStyle = lipgloss.NewStyle().Foreground(Red)
)

// Tag styles
var (
	TagStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)

	TagSelectedStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Accent).
				Padding(0, 1)

	TagCursorStyle = lipgloss.NewStyle().
			Underline(true)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Accent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)

// Match highlight styles for search results
var (
	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(SlateDark).
				Background(Yellow)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(SlateDark).
					Background(Yellow).
					Bold(true)
)

// Truncate shortens s to the given display width with an ellipsis.
// Wide (Hangul) characters count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return takeCells(s, width)
	}
	return takeCells(s, width-3) + "..."
}

func takeCells(s string, width int) string {
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}

// RenderListRow renders a list row with a uniform background when selected.
// Each part is styled on its own to avoid ANSI reset issues.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	var result strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := part.Style
		if part.Style.GetForeground() == (lipgloss.NoColor{}) {
			if selected {
				style = style.Foreground(White)
			} else {
				style = style.Foreground(LightGray)
			}
		}
		if selected {
			style = style.Background(SlateLight)
		}
		result.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(SlateLight)
	}

	// subtract 2 for left/right margin
	if pad := width - visibleLen - 2; pad > 0 {
		result.WriteString(marginStyle.Render(strings.Repeat(" ", pad)))
	}

	margin := marginStyle.Render(" ")
	return margin + result.String() + margin
}

// RowPart is one styled fragment of a list row. A style without a
// foreground gets the row's default color.
type RowPart struct {
	Text  string
	Style lipgloss.Style
}
