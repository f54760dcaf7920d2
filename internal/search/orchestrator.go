package search

import (
	"context"
	"log/slog"

	"github.com/mmcdole/dlserver/internal/domain"
)

// Mode is the orchestrator's current state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSingle
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "searching-single"
	case ModeAll:
		return "searching-all"
	default:
		return "idle"
	}
}

// Orchestrator runs one search generation at a time, fanning out to every
// library when asked to search all of them.
//
// Tasks run in their own goroutines and report on Results. Every state
// mutation happens in Apply, PerformSearch, CancelSearch or ClearResults,
// which must all be called from a single owner goroutine (the TUI update
// loop or the CLI loop). The orchestrator is not safe for concurrent use.
type Orchestrator struct {
	client  domain.CatalogClient
	logger  *slog.Logger
	results chan Outcome

	generation uint64
	cancel     context.CancelFunc

	mode      Mode
	loading   bool
	searchAll bool
	title     string
	library   string
	cleared   bool

	// states is replaced, never mutated in place, so snapshots handed out
	// by States stay valid.
	states    map[string]domain.LibrarySearchState
	order     []string
	total     int
	completed int

	books []domain.Book
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(client domain.CatalogClient, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		client:  client,
		logger:  logger,
		results: make(chan Outcome),
		states:  map[string]domain.LibrarySearchState{},
		books:   []domain.Book{},
	}
}

// Results is the channel task outcomes arrive on. The owner passes each
// received Outcome to Apply.
func (o *Orchestrator) Results() <-chan Outcome {
	return o.results
}

// PerformSearch cancels any in-flight search and starts a new generation.
// libraryName equal to domain.SearchAllLibraries fans out over libraries.
// An empty title is ignored.
func (o *Orchestrator) PerformSearch(title, libraryName string, libraries []domain.Library) {
	if title == "" {
		return
	}

	o.signalCancel()

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.generation++
	gen := o.generation

	o.books = []domain.Book{}
	o.loading = true
	o.title = title
	o.library = libraryName
	o.completed = 0
	o.cleared = false

	if !domain.IsSearchAll(libraryName) {
		o.mode = ModeSingle
		o.searchAll = false
		o.states = map[string]domain.LibrarySearchState{}
		o.order = nil
		o.total = 1

		o.logger.Info("search started", "title", title, "library", libraryName, "generation", gen)
		go o.launch(ctx, gen, title, libraryName)
		return
	}

	o.mode = ModeAll
	o.searchAll = true

	order := make([]string, 0, len(libraries))
	states := make(map[string]domain.LibrarySearchState, len(libraries))
	for _, lib := range libraries {
		if _, dup := states[lib.Name]; dup {
			continue
		}
		order = append(order, lib.Name)
		states[lib.Name] = domain.LibrarySearchState{LibraryName: lib.Name, Status: domain.StatusPending, Books: []domain.Book{}}
	}
	o.order = order
	o.total = len(order)

	o.logger.Info("search started", "title", title, "libraries", len(order), "generation", gen)

	if len(order) == 0 {
		o.states = states
		o.finish()
		return
	}

	for _, name := range order {
		st := states[name]
		st.Status = domain.StatusSearching
		states[name] = st
	}
	o.states = states

	for _, name := range order {
		go o.launch(ctx, gen, title, name)
	}
}

// launch runs one task and delivers its outcome unless the generation was
// cancelled first.
func (o *Orchestrator) launch(ctx context.Context, gen uint64, title, libraryName string) {
	books, err := RunTask(ctx, o.client, o.logger, title, libraryName)
	if ctx.Err() != nil || domain.IsCancellation(err) {
		return
	}
	select {
	case o.results <- Outcome{Generation: gen, Library: libraryName, Books: books, Err: err}:
	case <-ctx.Done():
	}
}

// Apply folds a task outcome into the current generation. Outcomes from a
// superseded or cancelled generation are discarded. Reports whether state
// changed.
func (o *Orchestrator) Apply(out Outcome) bool {
	if out.Generation != o.generation || !o.loading {
		return false
	}

	switch o.mode {
	case ModeSingle:
		o.books = SortByTitle(out.Books)
		if o.cleared {
			o.books = []domain.Book{}
		}
		o.finish()
		return true

	case ModeAll:
		prev, ok := o.states[out.Library]
		if !ok {
			// Results were cleared mid-flight: count the task but show nothing.
			o.completed++
			if o.completed >= o.total {
				o.finish()
			}
			return true
		}
		next := domain.LibrarySearchState{LibraryName: out.Library, Status: domain.StatusDone, Books: out.Books}
		if out.Err != nil {
			next.Status = domain.StatusError
			next.Books = []domain.Book{}
		}
		if !prev.Status.CanTransition(next.Status) {
			return false
		}
		if next.Books == nil {
			next.Books = []domain.Book{}
		}
		o.replaceState(next)
		o.completed++

		o.logger.Debug("library finished",
			"library", out.Library,
			"status", next.Status.String(),
			"books", len(next.Books),
			"completed", o.completed,
			"total", o.total,
		)

		if o.completed >= o.total {
			o.finish()
		}
		return true
	}

	return false
}

// replaceState swaps in a new state map containing st.
func (o *Orchestrator) replaceState(st domain.LibrarySearchState) {
	next := make(map[string]domain.LibrarySearchState, len(o.states))
	for k, v := range o.states {
		next[k] = v
	}
	next[st.LibraryName] = st
	o.states = next
}

func (o *Orchestrator) finish() {
	o.loading = false
	o.mode = ModeIdle
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.logger.Info("search finished", "title", o.title, "generation", o.generation, "books", len(o.AggregatedBooks()))
}

// CancelSearch stops the active search without waiting for its tasks.
// In an all-libraries search the books of libraries already done are kept;
// in a single search the in-flight result is dropped.
func (o *Orchestrator) CancelSearch() {
	o.signalCancel()

	if o.searchAll {
		o.books = SortByTitle(o.doneBooks())
	}

	if o.loading {
		o.logger.Info("search cancelled", "title", o.title, "generation", o.generation, "kept", len(o.books))
	}

	o.loading = false
	o.mode = ModeIdle
	o.searchAll = false
	o.states = map[string]domain.LibrarySearchState{}
	o.order = nil
	o.total = 0
	o.completed = 0
}

// ClearResults empties the aggregate and library states. The active
// cancellation handle is left alone, so an in-flight search still runs to
// completion but contributes nothing.
func (o *Orchestrator) ClearResults() {
	o.books = []domain.Book{}
	o.searchAll = false
	o.states = map[string]domain.LibrarySearchState{}
	o.order = nil
	o.cleared = true
}

// Close cancels any in-flight search. Used on session teardown.
func (o *Orchestrator) Close() {
	o.signalCancel()
	o.loading = false
	o.mode = ModeIdle
}

// signalCancel cancels the active generation, if any. Bumping the
// generation makes outcomes already in flight stale.
func (o *Orchestrator) signalCancel() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.generation++
}

// IsLoading reports whether a search is in flight.
func (o *Orchestrator) IsLoading() bool {
	return o.loading
}

// Mode returns the current state.
func (o *Orchestrator) Mode() Mode {
	return o.mode
}

// Generation returns the id of the current search generation.
func (o *Orchestrator) Generation() uint64 {
	return o.generation
}

// Query returns the title and library of the most recent search.
func (o *Orchestrator) Query() (title, libraryName string) {
	return o.title, o.library
}

// IsSearchingAll reports whether the current aggregate comes from an
// all-libraries search.
func (o *Orchestrator) IsSearchingAll() bool {
	return o.searchAll
}

// AggregatedBooks returns the merged, title-sorted books of the current
// generation. In an all-libraries search only libraries in done contribute.
func (o *Orchestrator) AggregatedBooks() []domain.Book {
	if !o.searchAll {
		return o.books
	}
	return SortByTitle(o.doneBooks())
}

func (o *Orchestrator) doneBooks() []domain.Book {
	var books []domain.Book
	for _, name := range o.order {
		st := o.states[name]
		if st.Status == domain.StatusDone {
			books = append(books, st.Books...)
		}
	}
	if books == nil {
		return []domain.Book{}
	}
	return books
}

// States returns the per-library states in launch order.
func (o *Orchestrator) States() []domain.LibrarySearchState {
	out := make([]domain.LibrarySearchState, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.states[name])
	}
	return out
}

// State returns the state of one library in the current all-libraries search.
func (o *Orchestrator) State(libraryName string) (domain.LibrarySearchState, bool) {
	st, ok := o.states[libraryName]
	return st, ok
}

// Progress derives the search progress from the library states.
func (o *Orchestrator) Progress() domain.SearchProgress {
	p := domain.SearchProgress{
		TotalLibraries:     len(o.order),
		SearchingLibraries: []string{},
		IsSearchingAll:     o.searchAll,
	}
	for _, name := range o.order {
		st := o.states[name]
		switch {
		case st.Status.IsTerminal():
			p.CompletedLibraries++
		case st.Status == domain.StatusSearching:
			p.SearchingLibraries = append(p.SearchingLibraries, name)
		}
	}
	return p
}

// FailedLibraries returns the names of libraries whose task failed, in
// launch order.
func (o *Orchestrator) FailedLibraries() []string {
	var failed []string
	for _, name := range o.order {
		if o.states[name].Status == domain.StatusError {
			failed = append(failed, name)
		}
	}
	return failed
}

// Await applies outcomes until the search finishes or ctx is done. It is a
// convenience for owners with no other events to multiplex.
func (o *Orchestrator) Await(ctx context.Context) error {
	for o.loading {
		select {
		case out := <-o.results:
			o.Apply(out)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
