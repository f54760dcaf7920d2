package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/filter"
)

func TestRenderBook(t *testing.T) {
	tests := []struct {
		name string
		book domain.Book
		want []string
	}{
		{"available", domain.Book{Title: "해리포터", Exist: true, LibraryName: "판교"}, []string{"✓", "해리포터", "판교"}},
		{"on loan", domain.Book{Title: "해리포터", LibraryName: "동탄"}, []string{"✖", "해리포터", "동탄"}},
		{"unknown library", domain.Book{Title: "해리포터"}, []string{domain.UnknownLibraryName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderBook(tt.book, "", false, 60)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestBookList_Navigation(t *testing.T) {
	l := NewBookList()
	l.SetSize(40, 2)
	l.SetBooks([]domain.Book{{Title: "a"}, {Title: "b"}, {Title: "c"}}, "")

	l.Move(1)
	assert.Equal(t, 1, l.Cursor())
	l.Bottom()
	assert.Equal(t, 2, l.Cursor())
	l.Move(10)
	assert.Equal(t, 2, l.Cursor(), "clamped to the last row")
	l.Top()
	b, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", b.Title)

	l.Bottom()
	l.SetBooks([]domain.Book{{Title: "x"}}, "")
	assert.Equal(t, 0, l.Cursor(), "cursor follows a shrinking list")
}

func TestTagBar(t *testing.T) {
	var bar TagBar
	bar.SetWidth(80)
	bar.SetCounts([]filter.LibraryCount{{Name: "판교", Count: 1}})
	assert.False(t, bar.Visible(), "hidden for a single library")

	bar.SetCounts([]filter.LibraryCount{
		{Name: "동탄", Count: 2, AvailableCount: 1},
		{Name: "판교", Count: 1},
	})
	require.True(t, bar.Visible())
	assert.Equal(t, "", bar.Current())

	bar.MoveRight()
	assert.Equal(t, "동탄", bar.Current())
	bar.MoveRight()
	bar.MoveRight()
	assert.Equal(t, "판교", bar.Current(), "cursor stops at the last tag")

	out := bar.View(filter.New())
	assert.Contains(t, out, "전체")
	assert.Contains(t, out, "동탄 2 (1)")
	assert.Contains(t, out, "판교 1")
}

func TestLibraryPicker(t *testing.T) {
	p := NewLibraryPicker()
	p.SetSize(80, 30)
	p.SetLibraries([]domain.Library{{ID: 0, Name: "동탄"}, {ID: 1, Name: "판교"}})

	p.Show(domain.SearchAllLibraries)
	assert.True(t, p.IsVisible())
	assert.Equal(t, domain.SearchAllLibraries, p.Selected())

	p.MoveDown()
	assert.Equal(t, "동탄", p.Selected())

	p.Hide()
	p.Show("판교")
	assert.Equal(t, "판교", p.Selected(), "opens on the current library")
	assert.Contains(t, p.View(), "전체 도서관 검색")
}

func TestHistoryDropdown(t *testing.T) {
	var h HistoryDropdown
	assert.False(t, h.Show(nil))
	assert.False(t, h.IsVisible())

	require.True(t, h.Show([]string{"해리포터", "어린 왕자"}))
	h.MoveDown()
	h.MoveDown()
	got, ok := h.Selected()
	require.True(t, ok)
	assert.Equal(t, "어린 왕자", got)

	h.Hide()
	_, ok = h.Selected()
	assert.False(t, ok)
}

func TestSearchBar_Library(t *testing.T) {
	s := NewSearchBar()
	s.SetWidth(80)
	assert.Equal(t, domain.SearchAllLibraries, s.Library())
	assert.Contains(t, s.View(), "[전체 도서관]")

	s.SetLibrary("판교")
	assert.Contains(t, s.View(), "[판교]")

	s.SetLibrary("")
	assert.Equal(t, domain.SearchAllLibraries, s.Library())
}
