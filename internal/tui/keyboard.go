package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/service"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) {
		return m, tea.Quit
	}

	if m.ShowHelp {
		if key.Matches(msg, Keys.Cancel, Keys.Help) {
			m.ShowHelp = false
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Keys that work from every pane
	switch {
	case key.Matches(msg, Keys.NextPane):
		if m.Focus == FocusFilter {
			return m, m.setFocus(FocusResults)
		}
		return m, m.setFocus(m.nextFocus())

	case key.Matches(msg, Keys.PickLibrary):
		m.Picker.SetSize(m.Width, m.Height)
		return m, m.Picker.Show(m.SearchBar.Library())

	case key.Matches(msg, Keys.ShowHistory):
		if !m.History.Show(m.SearchSvc.History().Entries()) {
			return m, m.setStatus("검색 기록이 없습니다", false)
		}
		return m, nil

	case key.Matches(msg, Keys.ToggleAvailable):
		f := m.SearchSvc.Filter()
		f.ToggleAvailableOnly()
		m.refreshResults()
		if f.AvailableOnly {
			return m, m.setStatus("대출 가능한 책만 표시합니다", false)
		}
		return m, m.setStatus("모든 책을 표시합니다", false)

	case key.Matches(msg, Keys.HistoryBack):
		if m.SearchSvc.Back() {
			m.syncFromService()
		}
		return m, nil

	case key.Matches(msg, Keys.HistoryForward):
		if m.SearchSvc.Forward() {
			m.syncFromService()
		}
		return m, nil
	}

	switch m.Focus {
	case FocusInput:
		return m.handleInputKey(msg)
	case FocusFilter:
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Cancel):
		if m.SearchSvc.Orchestrator().IsLoading() {
			m.cancelSearch()
			return m, m.setStatus("검색을 취소했습니다", false)
		}
		if f := m.SearchSvc.Filter(); f.Query != "" {
			f.Query = ""
			m.FilterInput.SetValue("")
			m.refreshResults()
			return m, nil
		}
		return m, m.setFocus(FocusInput)

	case key.Matches(msg, Keys.QuickFilter):
		m.FilterInput.SetValue(m.SearchSvc.Filter().Query)
		m.FilterInput.CursorEnd()
		cmd := m.setFocus(FocusFilter)
		m.updateLayout()
		return m, cmd
	}

	if m.Focus == FocusTags {
		return m.handleTagKey(msg)
	}
	return m.handleResultsKey(msg)
}

// routeToModal sends keys to an open modal. Returns true if handled.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.Picker.IsVisible() {
		switch {
		case key.Matches(msg, Keys.Cancel):
			m.Picker.Hide()
		case key.Matches(msg, Keys.Submit):
			lib := m.Picker.Selected()
			m.Picker.Hide()
			m.SearchBar.SetLibrary(lib)
			m.SearchSvc.SetLibrary(m.SearchBar.Library())
		case msg.Type == tea.KeyUp || msg.Type == tea.KeyCtrlP:
			m.Picker.MoveUp()
		case msg.Type == tea.KeyDown || msg.Type == tea.KeyCtrlN:
			m.Picker.MoveDown()
		default:
			var cmd tea.Cmd
			m.Picker, cmd = m.Picker.Update(msg)
			return true, m, cmd
		}
		return true, m, nil
	}

	if m.History.IsVisible() {
		switch {
		case key.Matches(msg, Keys.Cancel):
			m.History.Hide()
		case key.Matches(msg, Keys.Submit):
			entry, ok := m.History.Selected()
			m.History.Hide()
			if ok {
				m.SearchBar.SetValue(entry)
				return true, m, m.submitSearch()
			}
		case key.Matches(msg, Keys.ClearHistory):
			m.SearchSvc.History().Clear()
			m.History.Hide()
			return true, m, m.setStatus("검색 기록을 삭제했습니다", false)
		case key.Matches(msg, Keys.Up):
			m.History.MoveUp()
		case key.Matches(msg, Keys.Down):
			m.History.MoveDown()
		}
		return true, m, nil
	}

	return false, m, nil
}

// handleInputKey handles keys while the search bar has focus
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Search):
		return m, m.submitSearch()

	case key.Matches(msg, Keys.Cancel):
		if m.SearchSvc.Orchestrator().IsLoading() {
			m.cancelSearch()
			return m, m.setStatus("검색을 취소했습니다", false)
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.History.Show(m.SearchSvc.History().Entries()) {
			return m, nil
		}
		return m, m.setFocus(FocusResults)
	}

	var cmd tea.Cmd
	m.SearchBar, cmd = m.SearchBar.Update(msg)
	m.SearchSvc.SetText(m.SearchBar.Value())
	return m, cmd
}

// handleFilterKey handles keys while the quick filter has focus
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.SearchSvc.Filter()
	switch {
	case key.Matches(msg, Keys.Cancel):
		f.Query = ""
		m.FilterInput.SetValue("")
		cmd := m.setFocus(FocusResults)
		m.refreshResults()
		return m, cmd

	case key.Matches(msg, Keys.Submit):
		cmd := m.setFocus(FocusResults)
		m.updateLayout()
		return m, cmd
	}

	var cmd tea.Cmd
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	if m.FilterInput.Value() != f.Query {
		f.Query = m.FilterInput.Value()
		m.refreshResults()
	}
	return m, cmd
}

// handleResultsKey handles list navigation
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Up):
		m.Books.Move(-1)
	case key.Matches(msg, Keys.Down):
		m.Books.Move(1)
	case key.Matches(msg, Keys.PageUp):
		m.Books.Move(-m.Books.PageSize())
	case key.Matches(msg, Keys.PageDown):
		m.Books.Move(m.Books.PageSize())
	case key.Matches(msg, Keys.Home):
		m.Books.Top()
	case key.Matches(msg, Keys.End):
		m.Books.Bottom()
	}
	return m, nil
}

// handleTagKey handles the library tag bar
func (m Model) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.SearchSvc.Filter()
	switch {
	case key.Matches(msg, Keys.Left):
		m.Tags.MoveLeft()
	case key.Matches(msg, Keys.Right):
		m.Tags.MoveRight()
	case key.Matches(msg, Keys.SelectAllTags):
		f.SelectAll()
		m.refreshResults()
	case key.Matches(msg, Keys.ToggleTag):
		if name := m.Tags.Current(); name != "" {
			f.ToggleTag(name)
		} else {
			f.SelectAll()
		}
		m.refreshResults()
	}
	return m, nil
}

// submitSearch starts a search for the search bar contents
func (m *Model) submitSearch() tea.Cmd {
	m.History.Hide()
	err := m.SearchSvc.HandleSearch(m.SearchBar.Value(), m.SearchBar.Library())
	if errors.Is(err, domain.ErrEmptyTitle) {
		return m.setStatus(service.EmptySearchHint, true)
	}

	m.SearchSvc.Filter().Query = ""
	m.FilterInput.SetValue("")
	m.refreshResults()
	if !m.LibrariesLoaded && domain.IsSearchAll(m.SearchBar.Library()) {
		return m.setStatus("도서관 목록을 불러오는 중입니다", false)
	}
	return nil
}

// cancelSearch stops the active search, keeping finished results
func (m *Model) cancelSearch() {
	m.SearchSvc.Cancel()
	m.refreshResults()
}

// syncFromService reloads the search bar after an address change
func (m *Model) syncFromService() {
	m.SearchBar.SetValue(m.SearchSvc.Text())
	m.SearchBar.SetLibrary(m.SearchSvc.Library())
	m.refreshResults()
}
