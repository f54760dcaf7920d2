package components

import (
	"strings"

	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// HistoryDropdown lists recent searches under the search bar.
type HistoryDropdown struct {
	entries []string
	cursor  int
	visible bool
	width   int
}

// Show opens the dropdown over entries. Nothing opens for an empty history.
func (h *HistoryDropdown) Show(entries []string) bool {
	if len(entries) == 0 {
		return false
	}
	h.entries = entries
	h.cursor = 0
	h.visible = true
	return true
}

// Hide closes the dropdown.
func (h *HistoryDropdown) Hide() { h.visible = false }

// IsVisible reports whether the dropdown is open.
func (h HistoryDropdown) IsVisible() bool { return h.visible }

// MoveUp moves the cursor up.
func (h *HistoryDropdown) MoveUp() {
	if h.cursor > 0 {
		h.cursor--
	}
}

// MoveDown moves the cursor down.
func (h *HistoryDropdown) MoveDown() {
	if h.cursor < len(h.entries)-1 {
		h.cursor++
	}
}

// Selected returns the entry under the cursor.
func (h HistoryDropdown) Selected() (string, bool) {
	if !h.visible || len(h.entries) == 0 {
		return "", false
	}
	return h.entries[h.cursor], true
}

// SetWidth updates the component width.
func (h *HistoryDropdown) SetWidth(width int) { h.width = width }

// View renders the dropdown.
func (h HistoryDropdown) View() string {
	if !h.visible {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("최근 검색어"))
	b.WriteString("\n")
	for i, e := range h.entries {
		b.WriteString(styles.RenderListRow([]styles.RowPart{{Text: styles.Truncate(e, h.width-6)}}, i == h.cursor, h.width-4))
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render("enter 검색 · x 기록 삭제 · esc 닫기"))
	return styles.ModalStyle.Width(max(h.width-2, 20)).Render(b.String())
}
