package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/filter"
	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// LibraryPicker is a modal for choosing a library, with fuzzy narrowing.
// The first row is always the search-all choice.
type LibraryPicker struct {
	input     textinput.Model
	libraries []domain.Library
	matches   []filter.LibraryMatch
	cursor    int
	offset    int
	visible   bool
	width     int
	height    int
}

// NewLibraryPicker creates a hidden picker.
func NewLibraryPicker() LibraryPicker {
	ti := textinput.New()
	ti.Placeholder = "도서관 이름"
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.PlaceholderStyle = styles.DimStyle
	return LibraryPicker{input: ti}
}

// SetLibraries replaces the selectable libraries.
func (p *LibraryPicker) SetLibraries(libs []domain.Library) {
	p.libraries = libs
	p.refilter()
}

// Show opens the picker with the cursor on current.
func (p *LibraryPicker) Show(current string) tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	p.refilter()
	p.cursor = 0
	for i, m := range p.matches {
		if m.Library.Name == current {
			p.cursor = i + 1
		}
	}
	p.ensureVisible()
	return p.input.Focus()
}

// Hide closes the picker.
func (p *LibraryPicker) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible reports whether the picker is open.
func (p LibraryPicker) IsVisible() bool { return p.visible }

// Update forwards typing to the filter input.
func (p LibraryPicker) Update(msg tea.Msg) (LibraryPicker, tea.Cmd) {
	prev := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != prev {
		p.refilter()
		p.cursor = 0
		p.offset = 0
	}
	return p, cmd
}

func (p *LibraryPicker) refilter() {
	p.matches = filter.FilterLibraries(p.input.Value(), p.libraries)
}

func (p LibraryPicker) rows() int {
	return len(p.matches) + 1
}

// MoveUp moves the cursor up.
func (p *LibraryPicker) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
	p.ensureVisible()
}

// MoveDown moves the cursor down.
func (p *LibraryPicker) MoveDown() {
	if p.cursor < p.rows()-1 {
		p.cursor++
	}
	p.ensureVisible()
}

func (p *LibraryPicker) maxVisible() int {
	return max(p.height-8, 3)
}

func (p *LibraryPicker) ensureVisible() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.maxVisible() {
		p.offset = p.cursor - p.maxVisible() + 1
	}
}

// Selected returns the library name under the cursor.
func (p LibraryPicker) Selected() string {
	if p.cursor == 0 || p.cursor > len(p.matches) {
		return domain.SearchAllLibraries
	}
	return p.matches[p.cursor-1].Library.Name
}

// SetSize updates the component dimensions.
func (p *LibraryPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(width-12, 10)
}

// View renders the picker.
func (p LibraryPicker) View() string {
	if !p.visible {
		return ""
	}
	rowWidth := max(p.width-8, 20)

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("도서관 선택"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	end := min(p.offset+p.maxVisible(), p.rows())
	for i := p.offset; i < end; i++ {
		selected := i == p.cursor
		if i == 0 {
			b.WriteString(styles.RenderListRow([]styles.RowPart{{Text: "전체 도서관 검색", Style: styles.AccentStyle}}, selected, rowWidth))
		} else {
			m := p.matches[i-1]
			b.WriteString(styles.RenderListRow(highlightParts(m.Library.Name, m.MatchedIndexes, selected), selected, rowWidth))
		}
		b.WriteString("\n")
	}
	if len(p.matches) == 0 && strings.TrimSpace(p.input.Value()) != "" {
		b.WriteString(styles.DimStyle.Render("일치하는 도서관이 없습니다"))
		b.WriteString("\n")
	}
	return styles.ModalStyle.Width(max(p.width-4, 24)).Render(b.String())
}

// highlightParts splits name at the matched byte offsets.
func highlightParts(name string, matched []int, selected bool) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: name}}
	}
	hl := styles.MatchHighlightStyle
	if selected {
		hl = styles.MatchHighlightSelectedStyle
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var parts []styles.RowPart
	var run strings.Builder
	runMatch := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runMatch {
			part.Style = hl
		}
		parts = append(parts, part)
		run.Reset()
	}
	for i, r := range name {
		if set[i] != runMatch {
			flush()
			runMatch = set[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}
