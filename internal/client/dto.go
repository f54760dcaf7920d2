package client

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/mmcdole/dlserver/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// searchResult mirrors one element of the /search response array
type searchResult struct {
	LibraryName string     `json:"libraryName"`
	Booklist    []bookItem `json:"booklist"`
}

type bookItem struct {
	Title       string `json:"title"`
	Exist       bool   `json:"exist"`
	LibraryName string `json:"libraryName"`
	BookURL     string `json:"bookUrl"`
}

// decodeSearchResponse parses a /search body into domain results.
// Books without a library name inherit the enclosing result's name.
func decodeSearchResponse(body []byte) ([]domain.LibraryResult, error) {
	var raw []searchResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return mapResults(raw), nil
}

func mapResults(raw []searchResult) []domain.LibraryResult {
	results := make([]domain.LibraryResult, 0, len(raw))
	for _, r := range raw {
		books := make([]domain.Book, 0, len(r.Booklist))
		for _, b := range r.Booklist {
			name := b.LibraryName
			if strings.TrimSpace(name) == "" {
				name = r.LibraryName
			}
			books = append(books, domain.Book{
				Title:       b.Title,
				Exist:       b.Exist,
				LibraryName: name,
				BookURL:     b.BookURL,
			})
		}
		results = append(results, domain.LibraryResult{
			LibraryName: r.LibraryName,
			Booklist:    books,
		})
	}
	return results
}

// decodeLibraryList accepts either a bare array of names or an object with a
// "libraries" array.
func decodeLibraryList(body []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(body, &names); err == nil {
		return names, nil
	}

	var wrapped struct {
		Libraries []string `json:"libraries"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Libraries, nil
}
