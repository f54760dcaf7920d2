package search

import (
	"sort"
	"strings"

	"github.com/mmcdole/dlserver/internal/domain"
)

// SortByTitle returns a copy of books sorted by case-insensitive title.
// Equal titles keep their relative order.
func SortByTitle(books []domain.Book) []domain.Book {
	sorted := make([]domain.Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToUpper(sorted[i].Title) < strings.ToUpper(sorted[j].Title)
	})
	return sorted
}
