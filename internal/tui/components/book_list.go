package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/filter"
	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// BookList is the scrollable result list.
type BookList struct {
	vp      viewport.Model
	books   []domain.Book
	query   string
	cursor  int
	focused bool
	width   int
	height  int
}

// NewBookList creates an empty list.
func NewBookList() BookList {
	return BookList{vp: viewport.New(80, 10)}
}

// SetBooks replaces the rows. query is highlighted in titles.
func (l *BookList) SetBooks(books []domain.Book, query string) {
	l.books = books
	l.query = query
	if l.cursor >= len(books) {
		l.cursor = max(len(books)-1, 0)
	}
	l.render()
}

// Books returns the rows.
func (l BookList) Books() []domain.Book { return l.books }

// SetSize updates the component dimensions.
func (l *BookList) SetSize(width, height int) {
	l.width = width
	l.height = max(height, 1)
	l.vp.Width = width
	l.vp.Height = l.height
	l.render()
}

// SetFocused sets keyboard focus.
func (l *BookList) SetFocused(focused bool) {
	l.focused = focused
	l.render()
}

// Focused reports keyboard focus.
func (l BookList) Focused() bool { return l.focused }

// Cursor returns the selected row index.
func (l BookList) Cursor() int { return l.cursor }

// Selected returns the book under the cursor.
func (l BookList) Selected() (domain.Book, bool) {
	if l.cursor < 0 || l.cursor >= len(l.books) {
		return domain.Book{}, false
	}
	return l.books[l.cursor], true
}

// Move shifts the cursor by delta rows, clamped to the list.
func (l *BookList) Move(delta int) {
	if len(l.books) == 0 {
		return
	}
	l.cursor = min(max(l.cursor+delta, 0), len(l.books)-1)
	l.render()
}

// PageSize is the number of rows moved by page up/down.
func (l BookList) PageSize() int { return max(l.height-1, 1) }

// Top moves to the first row.
func (l *BookList) Top() { l.Move(-len(l.books)) }

// Bottom moves to the last row.
func (l *BookList) Bottom() { l.Move(len(l.books)) }

func (l *BookList) render() {
	lines := make([]string, len(l.books))
	for i, b := range l.books {
		lines[i] = RenderBook(b, l.query, l.focused && i == l.cursor, l.width)
	}
	l.vp.SetContent(strings.Join(lines, "\n"))

	if l.cursor < l.vp.YOffset {
		l.vp.SetYOffset(l.cursor)
	} else if l.cursor >= l.vp.YOffset+l.vp.Height {
		l.vp.SetYOffset(l.cursor - l.vp.Height + 1)
	}
}

// View renders the visible rows.
func (l BookList) View() string {
	return l.vp.View()
}

// RenderBook renders one row: availability mark, title with query matches
// highlighted, and the library name.
func RenderBook(b domain.Book, query string, selected bool, width int) string {
	mark := styles.RowPart{Text: styles.UnavailableChar + " ", Style: styles.UnavailableStyle}
	if b.Exist {
		mark = styles.RowPart{Text: styles.AvailableChar + " ", Style: styles.AvailableStyle}
	}

	library := b.DisplayLibraryName()
	titleWidth := width - 6 - len([]rune(library))*2
	title := styles.Truncate(b.Title, max(titleWidth, 10))

	parts := []styles.RowPart{mark}
	hl := styles.MatchHighlightStyle
	if selected {
		hl = styles.MatchHighlightSelectedStyle
	}
	for _, seg := range filter.Segments(title, query) {
		part := styles.RowPart{Text: seg.Text}
		if seg.Match {
			part.Style = hl
		}
		parts = append(parts, part)
	}
	parts = append(parts, styles.RowPart{Text: "  " + library, Style: styles.DimStyle})

	return styles.RenderListRow(parts, selected, width)
}
