package filter

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/dlserver/internal/domain"
)

// LibraryMatch is one library surviving the picker filter, with the
// matched byte offsets in the name for highlighting.
type LibraryMatch struct {
	Library        domain.Library
	MatchedIndexes []int
}

// libraryIndex implements fuzzy.Source over lowercase library names.
type libraryIndex struct {
	libs  []domain.Library
	lower []string
}

func (idx *libraryIndex) String(i int) string { return idx.lower[i] }

func (idx *libraryIndex) Len() int { return len(idx.libs) }

// FilterLibraries narrows libs to those fuzzily matching query. A blank
// query returns every library in input order; otherwise best matches come
// first.
func FilterLibraries(query string, libs []domain.Library) []LibraryMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]LibraryMatch, len(libs))
		for i, lib := range libs {
			out[i] = LibraryMatch{Library: lib}
		}
		return out
	}

	idx := &libraryIndex{libs: libs, lower: make([]string, len(libs))}
	for i, lib := range libs {
		idx.lower[i] = strings.ToLower(lib.Name)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	out := make([]LibraryMatch, len(matches))
	for i, m := range matches {
		out[i] = LibraryMatch{Library: libs[m.Index], MatchedIndexes: m.MatchedIndexes}
	}
	return out
}
