package domain

import "context"

// CatalogClient is the network boundary to the library-search API.
// Implemented by internal/client over HTTP.
type CatalogClient interface {
	// Search returns the per-library results for title. An empty libraryName
	// asks the provider for its default scope.
	Search(ctx context.Context, title, libraryName string) ([]LibraryResult, error)

	// LibraryNames returns the searchable library names in provider order.
	LibraryNames(ctx context.Context) ([]string, error)
}
