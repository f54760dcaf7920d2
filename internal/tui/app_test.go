package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/dlserver/internal/adapter"
	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/filter"
	"github.com/mmcdole/dlserver/internal/history"
	"github.com/mmcdole/dlserver/internal/library"
	"github.com/mmcdole/dlserver/internal/search"
	"github.com/mmcdole/dlserver/internal/service"
	"github.com/mmcdole/dlserver/internal/urlstate"
)

// stubClient answers from a fixed catalog. Libraries in hang never answer
// until their context is cancelled.
type stubClient struct {
	books map[string][]domain.Book
	hang  map[string]bool
}

func (c *stubClient) Search(ctx context.Context, title, libraryName string) ([]domain.LibraryResult, error) {
	if c.hang[libraryName] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []domain.LibraryResult{{LibraryName: libraryName, Booklist: c.books[libraryName]}}, nil
}

func (c *stubClient) LibraryNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(c.books))
	for n := range c.books {
		names = append(names, n)
	}
	return names, nil
}

var directory = []domain.Library{{ID: 0, Name: "동탄"}, {ID: 1, Name: "판교"}}

func newTestModel(t *testing.T, client *stubClient, address string) Model {
	t.Helper()
	logger := adapter.NullLogger()
	svc := service.NewSearchService(
		search.NewOrchestrator(client, logger),
		filter.New(),
		history.New(nil, 0, logger),
		urlstate.NewNavigator(address),
		logger,
	)
	m := NewModel(svc, library.NewService(client, logger))
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func defaultClient() *stubClient {
	return &stubClient{books: map[string][]domain.Book{
		"동탄": {{Title: "해리포터와 비밀의 방", Exist: true, LibraryName: "동탄"}},
		"판교": {{Title: "Harry Potter", Exist: false, LibraryName: "판교"}},
	}}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

// drain feeds outcomes to the model until the search finishes.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	orch := m.SearchSvc.Orchestrator()
	for orch.IsLoading() {
		select {
		case out := <-orch.Results():
			m = update(t, m, SearchOutcomeMsg{Outcome: out})
		case <-time.After(5 * time.Second):
			t.Fatal("search did not finish")
		}
	}
	return m
}

func press(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func titles(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestModel_SearchAllFlow(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})
	require.True(t, m.LibrariesLoaded)

	m.SearchBar.SetValue("해리")
	m = update(t, m, press(tea.KeyEnter))
	assert.True(t, m.SearchSvc.Orchestrator().IsLoading())
	assert.Equal(t, "해리", m.SearchSvc.Navigator().Params().Title)
	assert.Equal(t, []string{"해리"}, m.SearchSvc.History().Entries())

	m = drain(t, m)
	assert.Equal(t, []string{"Harry Potter", "해리포터와 비밀의 방"}, titles(m.Books.Books()))
	assert.True(t, m.Tags.Visible())
	assert.Contains(t, m.View(), "검색 완료")
}

func TestModel_EmptySearchShowsHint(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})

	m.SearchBar.SetValue("   ")
	m = update(t, m, press(tea.KeyEnter))

	assert.False(t, m.SearchSvc.Orchestrator().IsLoading())
	assert.Equal(t, service.EmptySearchHint, m.StatusMsg)
	assert.True(t, m.StatusIsErr)
	assert.Empty(t, m.SearchSvc.History().Entries())
}

func TestModel_EscCancelsAndKeepsFinishedLibraries(t *testing.T) {
	client := defaultClient()
	client.hang = map[string]bool{"판교": true}
	m := newTestModel(t, client, "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})

	m.SearchBar.SetValue("해리")
	m = update(t, m, press(tea.KeyEnter))

	select {
	case out := <-m.SearchSvc.Orchestrator().Results():
		m = update(t, m, SearchOutcomeMsg{Outcome: out})
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome")
	}
	require.True(t, m.SearchSvc.Orchestrator().IsLoading())

	m = update(t, m, press(tea.KeyEsc))
	assert.False(t, m.SearchSvc.Orchestrator().IsLoading())
	assert.Equal(t, []string{"해리포터와 비밀의 방"}, titles(m.Books.Books()))
	assert.Equal(t, "검색을 취소했습니다", m.StatusMsg)
}

func TestModel_StaleOutcomeIgnored(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})
	m.SearchBar.SetValue("해리")
	m = update(t, m, press(tea.KeyEnter))
	m = drain(t, m)

	before := titles(m.Books.Books())
	stale := search.Outcome{Generation: 0, Library: "동탄", Books: []domain.Book{{Title: "old"}}}
	m = update(t, m, SearchOutcomeMsg{Outcome: stale})
	assert.Equal(t, before, titles(m.Books.Books()))
}

func TestModel_ToggleAvailableOnly(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})
	m.SearchBar.SetValue("해리")
	m = update(t, m, press(tea.KeyEnter))
	m = drain(t, m)

	m = update(t, m, press(tea.KeyCtrlA))
	assert.True(t, m.SearchSvc.Filter().AvailableOnly)
	assert.Equal(t, []string{"해리포터와 비밀의 방"}, titles(m.Books.Books()))

	m = update(t, m, press(tea.KeyCtrlA))
	assert.Len(t, m.Books.Books(), 2)
}

func TestModel_TagToggle(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})
	m.SearchBar.SetValue("해리")
	m = update(t, m, press(tea.KeyEnter))
	m = drain(t, m)

	m = update(t, m, press(tea.KeyTab))
	assert.Equal(t, FocusResults, m.Focus)
	m = update(t, m, press(tea.KeyTab))
	require.Equal(t, FocusTags, m.Focus)

	// Tags are sorted by name: 동탄 first after the all tag
	m = update(t, m, press(tea.KeyRight))
	m = update(t, m, press(tea.KeySpace))
	assert.Equal(t, []string{"동탄"}, m.SearchSvc.Filter().SelectedTags())
	assert.Equal(t, []string{"해리포터와 비밀의 방"}, titles(m.Books.Books()))

	m = update(t, m, runes("0"))
	assert.True(t, m.SearchSvc.Filter().IsAllSelected())
	assert.Len(t, m.Books.Books(), 2)
}

func TestModel_QuickFilter(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})
	m.SearchBar.SetValue("해리")
	m = update(t, m, press(tea.KeyEnter))
	m = drain(t, m)

	m = update(t, m, press(tea.KeyTab))
	m = update(t, m, runes("/"))
	require.Equal(t, FocusFilter, m.Focus)

	m = update(t, m, runes("harry"))
	assert.Equal(t, "harry", m.SearchSvc.Filter().Query)
	assert.Equal(t, []string{"Harry Potter"}, titles(m.Books.Books()))

	m = update(t, m, press(tea.KeyEsc))
	assert.Equal(t, FocusResults, m.Focus)
	assert.Empty(t, m.SearchSvc.Filter().Query)
	assert.Len(t, m.Books.Books(), 2)
}

func TestModel_LibraryPicker(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})

	m = update(t, m, press(tea.KeyCtrlL))
	require.True(t, m.Picker.IsVisible())
	m = update(t, m, press(tea.KeyDown))
	m = update(t, m, press(tea.KeyEnter))

	assert.False(t, m.Picker.IsVisible())
	assert.Equal(t, "동탄", m.SearchBar.Library())
	assert.Equal(t, "동탄", m.SearchSvc.Library())
	assert.False(t, m.SearchSvc.Orchestrator().IsLoading(), "choosing a library does not search")
}

func TestModel_InitialAddressSearchesOnLoad(t *testing.T) {
	m := newTestModel(t, defaultClient(), "?title=해리&library=판교")
	assert.Equal(t, "해리", m.SearchBar.Value())
	assert.Equal(t, "판교", m.SearchBar.Library())

	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})
	require.Equal(t, search.ModeSingle, m.SearchSvc.Orchestrator().Mode())

	m = drain(t, m)
	assert.Equal(t, []string{"Harry Potter"}, titles(m.Books.Books()))
	assert.False(t, m.Tags.Visible())
}

func TestModel_HistoryDropdown(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: directory})

	m = update(t, m, press(tea.KeyCtrlR))
	assert.False(t, m.History.IsVisible())
	assert.Equal(t, "검색 기록이 없습니다", m.StatusMsg)

	m.SearchBar.SetValue("해리")
	m = update(t, m, press(tea.KeyEnter))
	m = drain(t, m)

	m = update(t, m, press(tea.KeyCtrlR))
	require.True(t, m.History.IsVisible())
	m = update(t, m, runes("x"))
	assert.False(t, m.History.IsVisible())
	assert.Empty(t, m.SearchSvc.History().Entries())
}

func TestModel_ClearStatusOnlyMatchingSeq(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m.setStatus("first", false)
	m.setStatus("second", false)

	m = update(t, m, ClearStatusMsg{Seq: 1})
	assert.Equal(t, "second", m.StatusMsg)

	m = update(t, m, ClearStatusMsg{Seq: 2})
	assert.Empty(t, m.StatusMsg)
}

func TestModel_EmptyDirectory(t *testing.T) {
	m := newTestModel(t, defaultClient(), "")
	m = update(t, m, LibrariesLoadedMsg{Libraries: []domain.Library{}})
	assert.True(t, m.LibrariesLoaded)
	assert.True(t, m.StatusIsErr)
}
