package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/dlserver/internal/domain"
)

func TestProgressText(t *testing.T) {
	assert.Equal(t, "검색 진행 중: 1/3 도서관", ProgressText(domain.SearchProgress{TotalLibraries: 3, CompletedLibraries: 1}))
	assert.Equal(t, "검색 완료", ProgressText(domain.SearchProgress{TotalLibraries: 3, CompletedLibraries: 3}))
}

func TestSearchingSummary(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, ""},
		{[]string{"판교"}, "판교"},
		{[]string{"a", "b", "c"}, "a, b, c"},
		{[]string{"a", "b", "c", "d", "e"}, "a, b, c 외 2곳"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SearchingSummary(tt.names))
	}
}

func TestProgressView(t *testing.T) {
	p := NewProgress()
	p.SetWidth(60)

	assert.Empty(t, p.View(domain.SearchProgress{TotalLibraries: 2}, nil), "hidden for single searches")

	out := p.View(domain.SearchProgress{
		TotalLibraries:     4,
		CompletedLibraries: 1,
		SearchingLibraries: []string{"동탄", "성남", "판교"},
		IsSearchingAll:     true,
	}, nil)
	assert.Contains(t, out, "검색 진행 중: 1/4 도서관")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "동탄, 성남, 판교")

	done := p.View(domain.SearchProgress{TotalLibraries: 2, CompletedLibraries: 2, IsSearchingAll: true}, []string{"성남"})
	assert.Contains(t, done, "검색 완료")
	assert.Contains(t, done, "검색 실패: 성남")
}
