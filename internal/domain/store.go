package domain

// Store handles small persistent state (BoltDB + memory).
// Values are opaque bytes; callers own their encoding.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Well-known store keys
const (
	// KeySearchHistory holds a JSON array of strings, most-recent-first
	KeySearchHistory = "dlserver-search-history"

	// KeyLastAddress holds the address (query string) active at exit
	KeyLastAddress = "last-address"
)
