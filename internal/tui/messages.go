package tui

import (
	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/search"
)

// Message types for the TUI

// LibrariesLoadedMsg signals that the library directory has been loaded
type LibrariesLoadedMsg struct {
	Libraries []domain.Library
}

// SearchOutcomeMsg carries one per-library task outcome
type SearchOutcomeMsg struct {
	Outcome search.Outcome
}

// ClearStatusMsg clears the status line if it still shows Seq
type ClearStatusMsg struct {
	Seq int
}
