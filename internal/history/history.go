package history

import (
	"log/slog"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/mmcdole/dlserver/internal/domain"
)

// DefaultMaxEntries is the history length used when none is configured.
const DefaultMaxEntries = 10

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// History is a bounded most-recent-first list of distinct past queries,
// persisted as a JSON array under domain.KeySearchHistory.
type History struct {
	store  domain.Store
	max    int
	logger *slog.Logger

	mu      sync.Mutex
	entries []string
}

// New loads history from store. A nil store keeps history in memory only.
func New(store domain.Store, maxEntries int, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	h := &History{store: store, max: maxEntries, logger: logger}
	h.entries = h.load()
	return h
}

// load reads persisted history, failing open to an empty list.
func (h *History) load() []string {
	if h.store == nil {
		return []string{}
	}
	data, ok := h.store.Get(domain.KeySearchHistory)
	if !ok || len(data) == 0 {
		return []string{}
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		h.logger.Warn("ignoring malformed search history", "error", err)
		return []string{}
	}

	entries := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		entries = append(entries, s)
		if len(entries) == h.max {
			break
		}
	}
	return entries
}

// save persists entries. Failures are logged and otherwise ignored.
func (h *History) save(entries []string) {
	if h.store == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		h.logger.Warn("failed to encode search history", "error", err)
		return
	}
	if err := h.store.Put(domain.KeySearchHistory, data); err != nil {
		h.logger.Warn("failed to save search history", "error", err)
	}
}

// Add moves query to the front, trimming it first. Blank queries are
// ignored; the oldest entry is dropped once the list is full.
func (h *History) Add(query string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return
	}

	h.mu.Lock()
	updated := make([]string, 0, h.max)
	updated = append(updated, trimmed)
	for _, e := range h.entries {
		if e != trimmed {
			updated = append(updated, e)
		}
	}
	if len(updated) > h.max {
		updated = updated[:h.max]
	}
	h.entries = updated
	h.mu.Unlock()

	h.save(updated)
}

// Clear empties the history.
func (h *History) Clear() {
	h.mu.Lock()
	h.entries = []string{}
	h.mu.Unlock()

	h.save([]string{})
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
