package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/dlserver/internal/library"
	"github.com/mmcdole/dlserver/internal/search"
)

// Command factories for async operations

// LoadLibrariesCmd loads the library directory once
func LoadLibrariesCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return LibrariesLoadedMsg{Libraries: svc.FetchLibraries(ctx)}
	}
}

// ListenOutcomesCmd waits for the next task outcome. The model re-issues it
// after every outcome so exactly one listener is ever pending.
func ListenOutcomesCmd(orch *search.Orchestrator) tea.Cmd {
	results := orch.Results()
	return func() tea.Msg {
		return SearchOutcomeMsg{Outcome: <-results}
	}
}

// ClearStatusCmd clears the status line after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
