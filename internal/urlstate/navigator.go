package urlstate

import "sync"

// Navigator is a push-style address history with back and forward.
type Navigator struct {
	mu      sync.Mutex
	entries []string
	index   int
}

// NewNavigator starts a history at initial.
func NewNavigator(initial string) *Navigator {
	return &Navigator{entries: []string{initial}}
}

// Push records a new address after the current one, dropping any forward
// entries.
func (n *Navigator) Push(address string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries[:n.index+1], address)
	n.index = len(n.entries) - 1
}

// Update encodes title and library and pushes the address.
func (n *Navigator) Update(title, library string) string {
	addr := Encode(title, library)
	n.Push(addr)
	return addr
}

// Back moves to the previous address. Returns false at the start.
func (n *Navigator) Back() (Params, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index == 0 {
		return Parse(n.entries[n.index]), false
	}
	n.index--
	return Parse(n.entries[n.index]), true
}

// Forward moves to the next address. Returns false at the end.
func (n *Navigator) Forward() (Params, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index == len(n.entries)-1 {
		return Parse(n.entries[n.index]), false
	}
	n.index++
	return Parse(n.entries[n.index]), true
}

// Current returns the active address.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.entries[n.index]
}

// Params returns the search intent of the active address.
func (n *Navigator) Params() Params {
	return Parse(n.Current())
}

// CanGoBack reports whether Back would move.
func (n *Navigator) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index > 0
}

// CanGoForward reports whether Forward would move.
func (n *Navigator) CanGoForward() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index < len(n.entries)-1
}
