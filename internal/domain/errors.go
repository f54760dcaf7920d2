package domain

import (
	"context"
	"errors"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the catalog server is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrUnexpectedStatus indicates a non-2xx response from the catalog server
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrSearchCancelled indicates the search generation was superseded or cancelled
	ErrSearchCancelled = errors.New("search cancelled")

	// ErrLibraryNotFound indicates the requested library does not exist
	ErrLibraryNotFound = errors.New("library not found")

	// ErrEmptyTitle indicates a search was requested without a title
	ErrEmptyTitle = errors.New("title is required")
)

// IsCancellation reports whether err is an expected cancellation rather than a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrSearchCancelled) || errors.Is(err, context.Canceled)
}
