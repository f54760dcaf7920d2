package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/tui/styles"
)

// maxSearchingNames is how many in-flight library names are listed before
// the rest are summarized.
const maxSearchingNames = 3

// ProgressText returns the headline for an all-libraries search.
func ProgressText(p domain.SearchProgress) string {
	if p.IsComplete() {
		return "검색 완료"
	}
	return fmt.Sprintf("검색 진행 중: %d/%d 도서관", p.CompletedLibraries, p.TotalLibraries)
}

// SearchingSummary lists the first few libraries still searching, with a
// count of the rest.
func SearchingSummary(names []string) string {
	if len(names) == 0 {
		return ""
	}
	if len(names) <= maxSearchingNames {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s 외 %d곳", strings.Join(names[:maxSearchingNames], ", "), len(names)-maxSearchingNames)
}

// Progress renders all-libraries search progress.
type Progress struct {
	bar   progress.Model
	width int
}

// NewProgress creates a progress view.
func NewProgress() Progress {
	return Progress{
		bar: progress.New(
			progress.WithSolidFill(string(styles.Accent)),
			progress.WithoutPercentage(),
		),
	}
}

// SetWidth updates the component width.
func (p *Progress) SetWidth(width int) {
	p.width = width
	p.bar.Width = max(width-8, 10)
}

// View renders the headline, the bar with percentage and the in-flight
// libraries. Failed libraries are listed once the search is complete.
func (p Progress) View(sp domain.SearchProgress, failed []string) string {
	if !sp.IsSearchingAll || sp.TotalLibraries == 0 {
		return ""
	}

	headline := styles.TitleStyle.Render(ProgressText(sp))
	pct := sp.Percent()
	bar := p.bar.ViewAs(float64(pct) / 100)
	lines := []string{
		headline,
		lipgloss.JoinHorizontal(lipgloss.Top, bar, " ", styles.SubtitleStyle.Render(fmt.Sprintf("%d%%", pct))),
	}

	if summary := SearchingSummary(sp.SearchingLibraries); summary != "" {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(summary, p.width)))
	}
	if len(failed) > 0 && sp.IsComplete() {
		lines = append(lines, styles.ErrorStyle.Render(styles.Truncate("검색 실패: "+strings.Join(failed, ", "), p.width)))
	}
	return strings.Join(lines, "\n")
}
