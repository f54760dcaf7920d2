package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/dlserver/internal/search"
	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}
	if m.Picker.IsVisible() {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.Picker.View())
	}

	sections := []string{m.renderHeader(), m.SearchBar.View()}
	if m.History.IsVisible() {
		sections = append(sections, m.History.View())
	}
	if v := m.progressView(); v != "" {
		sections = append(sections, v)
	}
	if m.Tags.Visible() {
		sections = append(sections, m.Tags.View(m.SearchSvc.Filter()))
	}
	if m.Focus == FocusFilter || m.SearchSvc.Filter().Query != "" {
		sections = append(sections, m.FilterInput.View())
	}
	sections = append(sections, m.renderBody())

	content := strings.Join(sections, "\n")
	bodyHeight := m.Height - footerHeight
	content = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(content)
	return content + "\n" + m.renderFooter()
}

// renderHeader shows the app title and the current address
func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("도서관 통합 검색")
	addr := m.SearchSvc.Navigator().Current()
	if addr == "" {
		return title
	}
	return title + "  " + styles.DimStyle.Render(styles.Truncate(addr, m.Width-lipgloss.Width(title)-2))
}

// progressView renders search progress, or "" when there is nothing to show
func (m Model) progressView() string {
	orch := m.SearchSvc.Orchestrator()
	switch {
	case orch.IsSearchingAll():
		return m.Progress.View(orch.Progress(), orch.FailedLibraries())
	case orch.Mode() == search.ModeSingle:
		title, lib := orch.Query()
		return m.Spinner.View() + " " + styles.DimStyle.Render(fmt.Sprintf("%s에서 '%s' 검색 중...", lib, title))
	}
	return ""
}

// renderBody renders the result list or an empty state
func (m Model) renderBody() string {
	orch := m.SearchSvc.Orchestrator()
	if len(m.Books.Books()) > 0 {
		return m.Books.View()
	}
	if orch.IsLoading() {
		return ""
	}
	if title, _ := orch.Query(); title == "" {
		return styles.DimStyle.Render("책 이름을 입력하고 enter를 누르세요")
	}
	return styles.DimStyle.Render("검색 결과가 없습니다")
}

// renderFooter renders the status line and key hints
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case m.SearchSvc.Orchestrator().IsLoading():
		left = m.Spinner.View() + " " + styles.DimStyle.Render("esc 검색 취소")
	case !m.LibrariesLoaded:
		left = m.Spinner.View() + " " + styles.DimStyle.Render("도서관 목록 불러오는 중...")
	default:
		left = styles.DimStyle.Render(fmt.Sprintf("%d권", len(m.Books.Books())))
		if m.SearchSvc.Filter().AvailableOnly {
			left += styles.SuccessStyle.Render(" · 대출 가능만")
		}
	}

	right := styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the key binding overview
func (m Model) renderHelp() string {
	groups := [][]helpEntry{
		{
			{Keys.Search, "검색"},
			{Keys.Cancel, "검색 취소 / 닫기"},
			{Keys.NextPane, "입력 · 결과 · 필터 이동"},
			{Keys.PickLibrary, "도서관 선택"},
			{Keys.ShowHistory, "최근 검색어"},
			{Keys.HistoryBack, "이전 검색"},
			{Keys.HistoryForward, "다음 검색"},
		},
		{
			{Keys.Up, "위로"},
			{Keys.Down, "아래로"},
			{Keys.PageUp, "이전 페이지"},
			{Keys.PageDown, "다음 페이지"},
			{Keys.QuickFilter, "결과 내 검색"},
			{Keys.ToggleAvailable, "대출 가능만 보기"},
			{Keys.ToggleTag, "도서관 필터 선택"},
			{Keys.SelectAllTags, "전체 도서관"},
			{Keys.Quit, "종료"},
		},
	}

	var cols []string
	for _, g := range groups {
		var b strings.Builder
		for _, e := range g {
			b.WriteString(styles.HelpKeyStyle.Width(10).Render(e.binding.Help().Key))
			b.WriteString(styles.HelpDescStyle.Render(e.desc))
			b.WriteString("\n")
		}
		cols = append(cols, b.String())
	}

	body := styles.ModalTitleStyle.Render("단축키") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, cols[0], "    ", cols[1])
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(body))
}

type helpEntry struct {
	binding key.Binding
	desc    string
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
