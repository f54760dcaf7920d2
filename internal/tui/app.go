package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/dlserver/internal/library"
	"github.com/mmcdole/dlserver/internal/service"
	"github.com/mmcdole/dlserver/internal/tui/components"
	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// Focus is the pane receiving keyboard input
type Focus int

const (
	FocusInput Focus = iota
	FocusResults
	FocusTags
	FocusFilter
)

// statusDuration is how long transient status messages stay up
const statusDuration = 3 * time.Second

// Layout rows used by chrome around the result list
const (
	headerHeight    = 1
	searchBarHeight = 3
	footerHeight    = 1
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	SearchSvc  *service.SearchService
	LibrarySvc *library.Service

	// UI Components
	SearchBar   components.SearchBar
	FilterInput textinput.Model
	History     components.HistoryDropdown
	Picker      components.LibraryPicker
	Tags        components.TagBar
	Books       components.BookList
	Progress    components.Progress
	Spinner     spinner.Model

	// UI state
	Focus           Focus
	ShowHelp        bool
	LibrariesLoaded bool
	StatusMsg       string
	StatusIsErr     bool
	statusSeq       int

	// Dimensions
	Width  int
	Height int
	Ready  bool
}

// NewModel creates a new application model. The search bar starts with
// the title and library of the current address.
func NewModel(searchSvc *service.SearchService, librarySvc *library.Service) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "결과 내 검색"
	fi.PromptStyle = styles.AccentStyle
	fi.PlaceholderStyle = styles.DimStyle

	m := Model{
		SearchSvc:   searchSvc,
		LibrarySvc:  librarySvc,
		SearchBar:   components.NewSearchBar(),
		FilterInput: fi,
		Picker:      components.NewLibraryPicker(),
		Books:       components.NewBookList(),
		Progress:    components.NewProgress(),
		Spinner:     sp,
		Focus:       FocusInput,
	}
	m.SearchBar.SetValue(searchSvc.Text())
	m.SearchBar.SetLibrary(searchSvc.Library())
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadLibrariesCmd(m.LibrarySvc),
		ListenOutcomesCmd(m.SearchSvc.Orchestrator()),
		m.Spinner.Tick,
		textinput.Blink,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case LibrariesLoadedMsg:
		m.LibrariesLoaded = true
		m.Picker.SetLibraries(msg.Libraries)
		if len(msg.Libraries) == 0 {
			return m, m.setStatus("도서관 목록을 불러오지 못했습니다", true)
		}
		if m.SearchSvc.SetLibraries(msg.Libraries) {
			m.SearchBar.SetValue(m.SearchSvc.Text())
			m.SearchBar.SetLibrary(m.SearchSvc.Library())
		}
		m.refreshResults()
		return m, nil

	case SearchOutcomeMsg:
		if m.SearchSvc.Orchestrator().Apply(msg.Outcome) {
			m.refreshResults()
		}
		// Exactly one listener stays pending on the results channel
		return m, ListenOutcomesCmd(m.SearchSvc.Orchestrator())

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	// Cursor blink and other input messages go to whichever field is live
	var cmd tea.Cmd
	switch {
	case m.Picker.IsVisible():
		m.Picker, cmd = m.Picker.Update(msg)
	case m.Focus == FocusFilter:
		m.FilterInput, cmd = m.FilterInput.Update(msg)
	case m.Focus == FocusInput:
		m.SearchBar, cmd = m.SearchBar.Update(msg)
	}
	return m, cmd
}

// setStatus shows a transient status message
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, statusDuration)
}

// refreshResults pushes the filtered aggregate into the list and tag bar
func (m *Model) refreshResults() {
	f := m.SearchSvc.Filter()
	query := f.Query
	if query == "" {
		query, _ = m.SearchSvc.Orchestrator().Query()
	}
	m.Books.SetBooks(m.SearchSvc.DisplayedBooks(), query)
	m.Tags.SetCounts(m.SearchSvc.TagCounts())
	if m.Focus == FocusTags && !m.Tags.Visible() {
		m.setFocus(FocusResults)
	}
	m.updateLayout()
}

// setFocus moves keyboard focus to pane
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.Focus = f
	m.SearchBar.Blur()
	m.FilterInput.Blur()
	m.Books.SetFocused(f == FocusResults)
	m.Tags.SetFocused(f == FocusTags)

	switch f {
	case FocusInput:
		return m.SearchBar.Focus()
	case FocusFilter:
		return m.FilterInput.Focus()
	}
	return nil
}

// nextFocus cycles input -> results -> tags, skipping a hidden tag bar
func (m Model) nextFocus() Focus {
	switch m.Focus {
	case FocusInput:
		return FocusResults
	case FocusResults:
		if m.Tags.Visible() {
			return FocusTags
		}
		return FocusInput
	default:
		return FocusInput
	}
}

// updateLayout sizes every component from the window dimensions
func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	m.SearchBar.SetWidth(m.Width)
	m.FilterInput.Width = max(m.Width-4, 10)
	m.History.SetWidth(m.Width)
	m.Picker.SetSize(m.Width, m.Height)
	m.Tags.SetWidth(m.Width)
	m.Progress.SetWidth(m.Width)

	m.Books.SetSize(m.Width, max(m.Height-m.chromeHeight(), 1))
}

// chromeHeight is the number of rows not available to the result list
func (m Model) chromeHeight() int {
	h := headerHeight + searchBarHeight + footerHeight
	if v := m.progressView(); v != "" {
		h += countLines(v)
	}
	if m.Tags.Visible() {
		h += countLines(m.Tags.View(m.SearchSvc.Filter()))
	}
	if m.Focus == FocusFilter || m.SearchSvc.Filter().Query != "" {
		h++
	}
	return h
}
