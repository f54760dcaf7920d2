package service

import (
	"log/slog"
	"strings"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/filter"
	"github.com/mmcdole/dlserver/internal/history"
	"github.com/mmcdole/dlserver/internal/search"
	"github.com/mmcdole/dlserver/internal/urlstate"
)

// EmptySearchHint is logged when a search is requested without a title.
const EmptySearchHint = "검색할 책 이름을 입력해주세요."

// SearchService ties the orchestrator to the filter, history and address
// state. Like the orchestrator it is driven from a single goroutine.
type SearchService struct {
	orch    *search.Orchestrator
	filter  *filter.Filter
	history *history.History
	nav     *urlstate.Navigator
	logger  *slog.Logger

	libraries    []domain.Library
	text         string
	library      string
	initialFired bool
}

// NewSearchService creates a coordinator. The current navigator address
// seeds the search text and library selection.
func NewSearchService(
	orch *search.Orchestrator,
	f *filter.Filter,
	h *history.History,
	nav *urlstate.Navigator,
	logger *slog.Logger,
) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	p := nav.Params()
	return &SearchService{
		orch:      orch,
		filter:    f,
		history:   h,
		nav:       nav,
		logger:    logger,
		libraries: []domain.Library{},
		text:      p.Title,
		library:   p.Library,
	}
}

// SetLibraries installs the loaded directory. The first time a non-empty
// directory arrives, a title in the current address starts a search.
// Reports whether that initial search fired.
func (s *SearchService) SetLibraries(libs []domain.Library) bool {
	s.libraries = libs
	if len(libs) == 0 || s.initialFired {
		return false
	}

	p := s.nav.Params()
	if p.Title == "" {
		return false
	}
	s.initialFired = true
	s.logger.Info("initial search from address", "title", p.Title, "library", p.Library)
	s.orch.PerformSearch(p.Title, p.Library, s.libraries)
	return true
}

// HandleSearch starts a user search for text in library. A blank text logs
// a hint and returns domain.ErrEmptyTitle without touching any state.
// Otherwise the tag selection is reset, the query is recorded in history
// and pushed as a new address, and the search starts.
func (s *SearchService) HandleSearch(text, library string) error {
	s.text = text
	s.library = library

	if strings.TrimSpace(text) == "" {
		s.logger.Info(EmptySearchHint)
		return domain.ErrEmptyTitle
	}

	s.filter.Reset()
	s.history.Add(text)
	s.nav.Update(text, library)
	s.orch.PerformSearch(text, library, s.libraries)
	return nil
}

// HandlePopState reacts to a restored address: it adopts the address's
// title and library, and searches again if there is a title and a loaded
// directory, otherwise it clears the results.
func (s *SearchService) HandlePopState(p urlstate.Params) {
	s.text = p.Title
	s.library = p.Library

	if p.Title != "" && len(s.libraries) > 0 {
		s.orch.PerformSearch(p.Title, p.Library, s.libraries)
		return
	}
	s.orch.ClearResults()
}

// Back navigates to the previous address. Reports whether it moved.
func (s *SearchService) Back() bool {
	p, ok := s.nav.Back()
	if ok {
		s.HandlePopState(p)
	}
	return ok
}

// Forward navigates to the next address. Reports whether it moved.
func (s *SearchService) Forward() bool {
	p, ok := s.nav.Forward()
	if ok {
		s.HandlePopState(p)
	}
	return ok
}

// Cancel stops the active search, keeping completed libraries' books.
func (s *SearchService) Cancel() {
	s.orch.CancelSearch()
}

// DisplayedBooks returns the aggregate passed through the active filters.
func (s *SearchService) DisplayedBooks() []domain.Book {
	return s.filter.Apply(s.orch.AggregatedBooks())
}

// TagCounts summarizes the aggregate per library for the tag bar.
func (s *SearchService) TagCounts() []filter.LibraryCount {
	return filter.TagCounts(s.orch.AggregatedBooks())
}

// Text returns the current search text.
func (s *SearchService) Text() string { return s.text }

// Library returns the current library selection.
func (s *SearchService) Library() string { return s.library }

// SetText updates the search text without searching.
func (s *SearchService) SetText(text string) { s.text = text }

// SetLibrary updates the library selection without searching.
func (s *SearchService) SetLibrary(library string) { s.library = library }

// Libraries returns the loaded directory.
func (s *SearchService) Libraries() []domain.Library { return s.libraries }

// Orchestrator returns the underlying orchestrator.
func (s *SearchService) Orchestrator() *search.Orchestrator { return s.orch }

// Filter returns the active filter.
func (s *SearchService) Filter() *filter.Filter { return s.filter }

// History returns the search history.
func (s *SearchService) History() *history.History { return s.history }

// Navigator returns the address history.
func (s *SearchService) Navigator() *urlstate.Navigator { return s.nav }
