package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmcdole/dlserver/internal/domain"
)

// Provider is the library-search capability the API server exposes.
type Provider interface {
	// Search returns per-library results for title. An empty libraryName
	// searches every library.
	Search(ctx context.Context, title, libraryName string) ([]domain.LibraryResult, error)

	// LibraryNames returns the library names in catalog order.
	LibraryNames() []string
}

// File is the on-disk layout of a static catalog.
type File struct {
	Libraries []LibraryEntry `yaml:"libraries"`
}

// LibraryEntry is one library in a catalog file.
type LibraryEntry struct {
	Name  string      `yaml:"name"`
	Books []BookEntry `yaml:"books"`
}

// BookEntry is one holding in a catalog file.
type BookEntry struct {
	Title   string `yaml:"title"`
	Exist   bool   `yaml:"exist"`
	BookURL string `yaml:"bookUrl"`
}

// StaticProvider serves searches from an in-memory catalog.
type StaticProvider struct {
	libraries []LibraryEntry
	byName    map[string]int
}

// NewStaticProvider builds a provider over f. Duplicate library names keep
// the first entry.
func NewStaticProvider(f File) *StaticProvider {
	p := &StaticProvider{byName: make(map[string]int)}
	for _, lib := range f.Libraries {
		if _, dup := p.byName[lib.Name]; dup || lib.Name == "" {
			continue
		}
		p.byName[lib.Name] = len(p.libraries)
		p.libraries = append(p.libraries, lib)
	}
	return p
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return f, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewStaticProvider(f), nil
}

// LibraryNames returns the library names in catalog order.
func (p *StaticProvider) LibraryNames() []string {
	names := make([]string, len(p.libraries))
	for i, lib := range p.libraries {
		names[i] = lib.Name
	}
	return names
}

// Search matches title as a case-insensitive substring. A library with no
// match still yields a result with an empty booklist.
func (p *StaticProvider) Search(ctx context.Context, title, libraryName string) ([]domain.LibraryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if libraryName != "" {
		i, ok := p.byName[libraryName]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrLibraryNotFound, libraryName)
		}
		return []domain.LibraryResult{match(p.libraries[i], title)}, nil
	}

	results := make([]domain.LibraryResult, 0, len(p.libraries))
	for _, lib := range p.libraries {
		results = append(results, match(lib, title))
	}
	return results, nil
}

func match(lib LibraryEntry, title string) domain.LibraryResult {
	needle := strings.ToLower(strings.TrimSpace(title))
	books := []domain.Book{}
	for _, b := range lib.Books {
		if needle != "" && !strings.Contains(strings.ToLower(b.Title), needle) {
			continue
		}
		books = append(books, domain.Book{
			Title:       b.Title,
			Exist:       b.Exist,
			LibraryName: lib.Name,
			BookURL:     b.BookURL,
		})
	}
	return domain.LibraryResult{LibraryName: lib.Name, Booklist: books}
}
