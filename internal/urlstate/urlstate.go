package urlstate

import (
	"net/url"
	"strings"

	"github.com/mmcdole/dlserver/internal/domain"
)

// Params is the search intent encoded in an address.
type Params struct {
	Title   string `json:"title"`
	Library string `json:"library"`
}

// Parse reads title and library from an address. The address may be a full
// URL, a path with a query, or a bare query with or without the leading
// "?". A missing library defaults to domain.SearchAllLibraries.
func Parse(address string) Params {
	p := Params{Library: domain.SearchAllLibraries}

	raw := address
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	} else if strings.Contains(raw, "/") || !strings.Contains(raw, "=") {
		return p
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}

	values, err := url.ParseQuery(raw)
	if err != nil && len(values) == 0 {
		return p
	}
	p.Title = values.Get("title")
	if lib := values.Get("library"); lib != "" {
		p.Library = lib
	}
	return p
}

// Encode builds the address for title and library: title only when
// non-empty, library only when it is not the search-all sentinel. The
// result is "" when neither is present, else "?title=...&library=...".
func Encode(title, library string) string {
	var parts []string
	if title != "" {
		parts = append(parts, "title="+url.QueryEscape(title))
	}
	if library != "" && !domain.IsSearchAll(library) {
		parts = append(parts, "library="+url.QueryEscape(library))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// String returns the address for p.
func (p Params) String() string {
	return Encode(p.Title, p.Library)
}
