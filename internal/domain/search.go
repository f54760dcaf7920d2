package domain

// SearchStatus is the lifecycle of one library within an all-libraries search.
// Transitions are monotonic: pending -> searching -> done | error.
type SearchStatus int

const (
	StatusPending SearchStatus = iota
	StatusSearching
	StatusDone
	StatusError
)

// String returns the lowercase status name
func (s SearchStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSearching:
		return "searching"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the status is done or error
func (s SearchStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// CanTransition reports whether moving from s to next keeps the status monotonic.
func (s SearchStatus) CanTransition(next SearchStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusSearching || next.IsTerminal()
	case StatusSearching:
		return next.IsTerminal()
	default:
		return false
	}
}

// LibrarySearchState tracks one library during an all-libraries search.
type LibrarySearchState struct {
	LibraryName string
	Status      SearchStatus
	Books       []Book
}

// SearchProgress is derived from the library states on every change.
type SearchProgress struct {
	TotalLibraries     int
	CompletedLibraries int
	SearchingLibraries []string
	IsSearchingAll     bool
}

// IsComplete reports whether every library has finished
func (p SearchProgress) IsComplete() bool {
	return p.TotalLibraries > 0 && p.CompletedLibraries == p.TotalLibraries
}

// Percent returns the rounded completion percentage
func (p SearchProgress) Percent() int {
	if p.TotalLibraries == 0 {
		return 0
	}
	return (p.CompletedLibraries*100 + p.TotalLibraries/2) / p.TotalLibraries
}
