package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// SearchBar is the title input plus the selected library label.
type SearchBar struct {
	input   textinput.Model
	library string
	width   int
}

// NewSearchBar creates a focused search bar.
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "책 이름을 입력하세요"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "🔍 "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.Focus()

	return SearchBar{input: ti, library: domain.SearchAllLibraries}
}

// Update forwards input messages to the text field.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// Value returns the typed title.
func (s SearchBar) Value() string { return s.input.Value() }

// SetValue replaces the typed title.
func (s *SearchBar) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
}

// Library returns the selected library.
func (s SearchBar) Library() string { return s.library }

// SetLibrary changes the selected library.
func (s *SearchBar) SetLibrary(name string) {
	if name == "" {
		name = domain.SearchAllLibraries
	}
	s.library = name
}

// Focus gives the text field keyboard focus.
func (s *SearchBar) Focus() tea.Cmd { return s.input.Focus() }

// Blur removes keyboard focus.
func (s *SearchBar) Blur() { s.input.Blur() }

// Focused reports whether the text field has focus.
func (s SearchBar) Focused() bool { return s.input.Focused() }

// SetWidth updates the component width.
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-lipgloss.Width(s.libraryLabel())-8, 10)
}

func (s SearchBar) libraryLabel() string {
	if domain.IsSearchAll(s.library) {
		return "[전체 도서관]"
	}
	return "[" + s.library + "]"
}

// View renders the bar.
func (s SearchBar) View() string {
	border := styles.InactiveBorder
	if s.input.Focused() {
		border = styles.ActiveBorder
	}
	label := styles.AccentStyle.Render(s.libraryLabel())
	content := lipgloss.JoinHorizontal(lipgloss.Top, s.input.View(), "  ", label)
	return border.Width(max(s.width-2, 20)).Render(content)
}
