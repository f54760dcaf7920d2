package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/dlserver/internal/filter"
	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// TagBar shows one toggleable tag per library in the results. Position 0
// is the "all" tag.
type TagBar struct {
	counts  []filter.LibraryCount
	cursor  int
	focused bool
	width   int
}

// SetCounts replaces the tags, keeping the cursor in range.
func (t *TagBar) SetCounts(counts []filter.LibraryCount) {
	t.counts = counts
	if t.cursor > len(counts) {
		t.cursor = len(counts)
	}
}

// Visible reports whether the bar has anything worth showing.
func (t TagBar) Visible() bool { return filter.ShowTagBar(t.counts) }

// SetFocused sets keyboard focus.
func (t *TagBar) SetFocused(focused bool) { t.focused = focused }

// Focused reports keyboard focus.
func (t TagBar) Focused() bool { return t.focused }

// MoveLeft moves the cursor left.
func (t *TagBar) MoveLeft() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// MoveRight moves the cursor right.
func (t *TagBar) MoveRight() {
	if t.cursor < len(t.counts) {
		t.cursor++
	}
}

// Current returns the library under the cursor, or "" on the all tag.
func (t TagBar) Current() string {
	if t.cursor == 0 || t.cursor > len(t.counts) {
		return ""
	}
	return t.counts[t.cursor-1].Name
}

// SetWidth updates the component width.
func (t *TagBar) SetWidth(width int) { t.width = width }

// View renders the tags against the current selection.
func (t TagBar) View(f *filter.Filter) string {
	if !t.Visible() {
		return ""
	}

	tags := make([]string, 0, len(t.counts)+2)
	tags = append(tags, styles.DimStyle.Render("도서관 필터:"))
	tags = append(tags, t.renderTag("전체", f.IsAllSelected(), t.cursor == 0))
	for i, c := range t.counts {
		label := fmt.Sprintf("%s %d", c.Name, c.Count)
		if c.AvailableCount > 0 {
			label += fmt.Sprintf(" (%d)", c.AvailableCount)
		}
		tags = append(tags, t.renderTag(label, f.IsSelected(c.Name), t.cursor == i+1))
	}

	return wrapTags(tags, t.width)
}

func (t TagBar) renderTag(label string, selected, under bool) string {
	style := styles.TagStyle
	if selected {
		style = styles.TagSelectedStyle
	}
	if under && t.focused {
		style = style.Inherit(styles.TagCursorStyle).Bold(true)
	}
	return style.Render(label)
}

// wrapTags lays tags out left to right, breaking lines at width.
func wrapTags(tags []string, width int) string {
	var lines []string
	var line []string
	used := 0
	for _, tag := range tags {
		w := lipgloss.Width(tag) + 1
		if used > 0 && width > 0 && used+w > width {
			lines = append(lines, strings.Join(line, " "))
			line, used = nil, 0
		}
		line = append(line, tag)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}
