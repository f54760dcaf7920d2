package filter

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/dlserver/internal/domain"
)

// Filter derives the displayed books from the aggregate. The zero value
// shows everything.
type Filter struct {
	// tags is the selected library set; empty means no library filtering.
	tags map[string]struct{}

	// AvailableOnly hides books that are on loan.
	AvailableOnly bool

	// Query narrows titles with a normalized, case-insensitive fuzzy match.
	Query string
}

// New returns a filter with nothing selected.
func New() *Filter {
	return &Filter{tags: make(map[string]struct{})}
}

// Apply returns the books passing every active predicate, in input order.
func (f *Filter) Apply(books []domain.Book) []domain.Book {
	out := make([]domain.Book, 0, len(books))
	query := strings.TrimSpace(f.Query)
	for _, b := range books {
		if len(f.tags) > 0 {
			if b.LibraryName == "" {
				continue
			}
			if _, ok := f.tags[b.LibraryName]; !ok {
				continue
			}
		}
		if f.AvailableOnly && !b.Exist {
			continue
		}
		if query != "" && !fuzzy.MatchNormalizedFold(query, b.Title) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Reset clears the library selection. AvailableOnly and Query are kept.
func (f *Filter) Reset() {
	f.tags = make(map[string]struct{})
}

// ToggleTag adds name to the selection or removes it if already selected.
func (f *Filter) ToggleTag(name string) {
	if f.tags == nil {
		f.tags = make(map[string]struct{})
	}
	if _, ok := f.tags[name]; ok {
		delete(f.tags, name)
		return
	}
	f.tags[name] = struct{}{}
}

// SetTags replaces the selection.
func (f *Filter) SetTags(names []string) {
	f.tags = make(map[string]struct{}, len(names))
	for _, n := range names {
		f.tags[n] = struct{}{}
	}
}

// SelectAll clears the selection so every library shows.
func (f *Filter) SelectAll() {
	f.Reset()
}

// IsAllSelected reports whether no library restriction is active.
func (f *Filter) IsAllSelected() bool {
	return len(f.tags) == 0
}

// IsSelected reports whether name is in the selection.
func (f *Filter) IsSelected(name string) bool {
	_, ok := f.tags[name]
	return ok
}

// SelectedTags returns the selection sorted by name.
func (f *Filter) SelectedTags() []string {
	out := make([]string, 0, len(f.tags))
	for n := range f.tags {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ToggleAvailableOnly flips the availability filter.
func (f *Filter) ToggleAvailableOnly() {
	f.AvailableOnly = !f.AvailableOnly
}
