package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/dlserver/internal/adapter"
	"github.com/mmcdole/dlserver/internal/domain"
)

type response struct {
	results []domain.LibraryResult
	err     error
}

// gatedClient blocks each (title, library) search until the test resolves it.
type gatedClient struct {
	mu    sync.Mutex
	gates map[string]chan response
}

func newGatedClient() *gatedClient {
	return &gatedClient{gates: make(map[string]chan response)}
}

func (c *gatedClient) gate(title, library string) chan response {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := title + "|" + library
	ch, ok := c.gates[key]
	if !ok {
		ch = make(chan response, 1)
		c.gates[key] = ch
	}
	return ch
}

func (c *gatedClient) Search(ctx context.Context, title, libraryName string) ([]domain.LibraryResult, error) {
	select {
	case r := <-c.gate(title, libraryName):
		return r.results, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *gatedClient) LibraryNames(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (c *gatedClient) resolve(title, library string, books ...domain.Book) {
	c.gate(title, library) <- response{results: []domain.LibraryResult{{LibraryName: library, Booklist: books}}}
}

func (c *gatedClient) fail(title, library string, err error) {
	c.gate(title, library) <- response{err: err}
}

// applyNext waits for one outcome and applies it.
func applyNext(t *testing.T, o *Orchestrator) Outcome {
	t.Helper()
	select {
	case out := <-o.Results():
		o.Apply(out)
		return out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for task outcome")
		return Outcome{}
	}
}

func libs(names ...string) []domain.Library {
	out := make([]domain.Library, len(names))
	for i, n := range names {
		out[i] = domain.Library{ID: i, Name: n}
	}
	return out
}

func book(title, library string, exist bool) domain.Book {
	return domain.Book{Title: title, Exist: exist, LibraryName: library}
}

func titles(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestOrchestrator_SearchAllCancelKeepsDoneLibraries(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())
	all := libs("동탄", "성남", "판교")

	o.PerformSearch("해리포터", domain.SearchAllLibraries, all)
	require.True(t, o.IsLoading())
	assert.Equal(t, ModeAll, o.Mode())

	p := o.Progress()
	assert.Equal(t, 3, p.TotalLibraries)
	assert.Equal(t, 0, p.CompletedLibraries)
	assert.Equal(t, []string{"동탄", "성남", "판교"}, p.SearchingLibraries)
	assert.True(t, p.IsSearchingAll)

	client.resolve("해리포터", "판교", book("해리포터와 마법사의 돌", "판교", true))
	applyNext(t, o)
	assert.Equal(t, []string{"해리포터와 마법사의 돌"}, titles(o.AggregatedBooks()), "partial results show progressively")

	client.resolve("해리포터", "동탄", book("Harry Potter", "동탄", true))
	applyNext(t, o)
	assert.Equal(t, 2, o.Progress().CompletedLibraries)
	assert.True(t, o.IsLoading(), "성남 never resolves")

	o.CancelSearch()
	assert.False(t, o.IsLoading())
	assert.Equal(t, ModeIdle, o.Mode())
	assert.Equal(t, []string{"Harry Potter", "해리포터와 마법사의 돌"}, titles(o.AggregatedBooks()))
	assert.Empty(t, o.States())

	// A fresh search starts clean.
	o.PerformSearch("없는책", "판교", all)
	assert.Empty(t, o.States())
	assert.Empty(t, o.AggregatedBooks())
	assert.Equal(t, 0, o.Progress().TotalLibraries)
	o.Close()
}

func TestOrchestrator_CancelBeforeAnyResolve(t *testing.T) {
	o := NewOrchestrator(newGatedClient(), adapter.NullLogger())

	o.PerformSearch("해리포터", domain.SearchAllLibraries, libs("동탄", "판교"))
	o.CancelSearch()

	assert.False(t, o.IsLoading())
	assert.NotNil(t, o.AggregatedBooks())
	assert.Empty(t, o.AggregatedBooks())
}

func TestOrchestrator_SearchAllCompletes(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("b", domain.SearchAllLibraries, libs("A", "B", "C"))
	client.resolve("b", "C", book("banana", "C", true), book("Apple", "C", false))
	client.resolve("b", "A", book("cherry", "A", true))
	client.fail("b", "B", errors.New("network down"))

	for i := 0; i < 3; i++ {
		applyNext(t, o)
	}

	assert.False(t, o.IsLoading())
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, titles(o.AggregatedBooks()))

	p := o.Progress()
	assert.Equal(t, 3, p.CompletedLibraries)
	assert.True(t, p.IsComplete())
	assert.Equal(t, []string{"B"}, o.FailedLibraries())

	st, ok := o.State("B")
	require.True(t, ok)
	assert.Equal(t, domain.StatusError, st.Status)
	assert.Empty(t, st.Books)
}

func TestOrchestrator_FailureCountsLikeZeroResults(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("x", domain.SearchAllLibraries, libs("ok", "broken", "slow"))
	client.resolve("x", "ok")
	applyNext(t, o)
	afterEmpty := o.Progress().CompletedLibraries

	client.fail("x", "broken", errors.New("502"))
	applyNext(t, o)

	assert.Equal(t, afterEmpty+1, o.Progress().CompletedLibraries)
	assert.Empty(t, o.AggregatedBooks())
	o.Close()
}

func TestOrchestrator_SingleLibrary(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("해리포터", "판교", libs("동탄", "판교"))
	assert.Equal(t, ModeSingle, o.Mode())
	assert.False(t, o.IsSearchingAll())

	client.resolve("해리포터", "판교", book("b", "판교", true), book("A", "판교", false))
	applyNext(t, o)

	assert.False(t, o.IsLoading())
	assert.Equal(t, []string{"A", "b"}, titles(o.AggregatedBooks()))
}

func TestOrchestrator_SingleLibraryNoResults(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("없는책", "판교", libs("판교"))
	client.resolve("없는책", "판교")
	applyNext(t, o)

	assert.False(t, o.IsLoading())
	assert.NotNil(t, o.AggregatedBooks())
	assert.Empty(t, o.AggregatedBooks())
}

func TestOrchestrator_SingleCancelDropsResult(t *testing.T) {
	o := NewOrchestrator(newGatedClient(), adapter.NullLogger())

	o.PerformSearch("t", "판교", libs("판교"))
	o.CancelSearch()

	assert.False(t, o.IsLoading())
	assert.Empty(t, o.AggregatedBooks())
}

func TestOrchestrator_NewSearchSupersedesOld(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("old", domain.SearchAllLibraries, libs("A"))
	oldGen := o.Generation()

	o.PerformSearch("new", domain.SearchAllLibraries, libs("A"))
	assert.Greater(t, o.Generation(), oldGen)

	// A stale outcome that slipped through is discarded.
	changed := o.Apply(Outcome{Generation: oldGen, Library: "A", Books: []domain.Book{book("stale", "A", true)}})
	assert.False(t, changed)
	assert.Empty(t, o.AggregatedBooks())

	client.resolve("old", "A", book("stale", "A", true))
	client.resolve("new", "A", book("fresh", "A", true))

	out := applyNext(t, o)
	assert.Equal(t, o.Generation(), out.Generation)
	assert.Equal(t, []string{"fresh"}, titles(o.AggregatedBooks()))
	assert.False(t, o.IsLoading())
}

func TestOrchestrator_EmptyTitleIgnored(t *testing.T) {
	o := NewOrchestrator(newGatedClient(), adapter.NullLogger())
	o.PerformSearch("", domain.SearchAllLibraries, libs("A"))
	assert.False(t, o.IsLoading())
	assert.Equal(t, uint64(0), o.Generation())
}

func TestOrchestrator_NoLibrariesFinishesImmediately(t *testing.T) {
	o := NewOrchestrator(newGatedClient(), adapter.NullLogger())
	o.PerformSearch("t", domain.SearchAllLibraries, nil)
	assert.False(t, o.IsLoading())
	assert.Empty(t, o.AggregatedBooks())
}

func TestOrchestrator_ClearResultsKeepsSearchRunning(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("t", domain.SearchAllLibraries, libs("A", "B"))
	client.resolve("t", "A", book("a", "A", true))
	applyNext(t, o)

	o.ClearResults()
	assert.Empty(t, o.AggregatedBooks())
	assert.Empty(t, o.States())
	assert.True(t, o.IsLoading())

	client.resolve("t", "B", book("b", "B", true))
	applyNext(t, o)
	assert.False(t, o.IsLoading())
	assert.Empty(t, o.AggregatedBooks())
}

func TestOrchestrator_Await(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("t", domain.SearchAllLibraries, libs("A", "B"))
	client.resolve("t", "A", book("a", "A", true))
	client.resolve("t", "B", book("b", "B", true))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, o.Await(ctx))
	assert.Len(t, o.AggregatedBooks(), 2)
}

func TestOrchestrator_StatesAreSnapshots(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("t", domain.SearchAllLibraries, libs("A", "B"))
	before := o.States()

	client.resolve("t", "A", book("a", "A", true))
	applyNext(t, o)

	assert.Equal(t, domain.StatusSearching, before[0].Status)
	st, _ := o.State("A")
	assert.Equal(t, domain.StatusDone, st.Status)
	o.Close()
}

func TestOrchestrator_FinishedLibraryIgnoresRepeatOutcome(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("t", domain.SearchAllLibraries, libs("A", "B"))
	client.resolve("t", "A", book("a", "A", true))
	first := applyNext(t, o)

	repeat := Outcome{Generation: first.Generation, Library: "A", Err: errors.New("late failure")}
	assert.False(t, o.Apply(repeat))

	st, _ := o.State("A")
	assert.Equal(t, domain.StatusDone, st.Status)
	assert.Equal(t, 1, o.Progress().CompletedLibraries)
	assert.True(t, o.IsLoading())
	o.Close()
}

func TestOrchestrator_SingleClearResultsDropsLateResult(t *testing.T) {
	client := newGatedClient()
	o := NewOrchestrator(client, adapter.NullLogger())

	o.PerformSearch("t", "A", nil)
	o.ClearResults()
	client.resolve("t", "A", book("late", "A", true))
	applyNext(t, o)

	assert.False(t, o.IsLoading())
	assert.Empty(t, o.AggregatedBooks())
}
