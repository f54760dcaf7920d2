package domain

import "strings"

// SearchAllLibraries is the library-selector placeholder meaning "no specific
// library chosen". Searching with it fans out across every known library.
const SearchAllLibraries = "도서관을 선택하세요."

// UnknownLibraryName labels books whose library name is missing.
const UnknownLibraryName = "알 수 없음"

// Library is one searchable lending catalog. Name is the identity used in
// searches, filters and addresses; ID is its position in the directory response.
type Library struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Book is a single catalog hit. Exist reports whether it is available for loan.
type Book struct {
	Title       string `json:"title"`
	Exist       bool   `json:"exist"`
	LibraryName string `json:"libraryName,omitempty"`
	BookURL     string `json:"bookUrl,omitempty"`
}

// DisplayLibraryName returns the library name, or UnknownLibraryName when empty
func (b Book) DisplayLibraryName() string {
	if strings.TrimSpace(b.LibraryName) == "" {
		return UnknownLibraryName
	}
	return b.LibraryName
}

// AvailabilityMark returns the check/cross mark used in plain-text output
func (b Book) AvailabilityMark() string {
	if b.Exist {
		return "✓"
	}
	return "✖"
}

// LibraryResult is one library's answer to a search request.
type LibraryResult struct {
	LibraryName string `json:"libraryName"`
	Booklist    []Book `json:"booklist"`
}

// IsSearchAll reports whether libraryName selects the all-libraries fan-out
func IsSearchAll(libraryName string) bool {
	return libraryName == SearchAllLibraries
}
