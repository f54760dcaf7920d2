package filter

import (
	"sort"

	"github.com/mmcdole/dlserver/internal/domain"
)

// LibraryCount summarizes one library's share of a result set.
type LibraryCount struct {
	Name           string
	Count          int
	AvailableCount int
}

// TagCounts groups books by library name, sorted by name. Books without a
// library name are counted under domain.UnknownLibraryName.
func TagCounts(books []domain.Book) []LibraryCount {
	index := make(map[string]int)
	var counts []LibraryCount
	for _, b := range books {
		name := b.DisplayLibraryName()
		i, ok := index[name]
		if !ok {
			i = len(counts)
			index[name] = i
			counts = append(counts, LibraryCount{Name: name})
		}
		counts[i].Count++
		if b.Exist {
			counts[i].AvailableCount++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Name < counts[j].Name
	})
	return counts
}

// ShowTagBar reports whether the library tag bar is worth showing: it is
// hidden for empty results and for results from a single library.
func ShowTagBar(counts []LibraryCount) bool {
	return len(counts) > 1
}
