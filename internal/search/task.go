package search

import (
	"context"
	"log/slog"

	"github.com/mmcdole/dlserver/internal/domain"
)

// Outcome is the message a per-library task delivers to the orchestrator.
type Outcome struct {
	Generation uint64
	Library    string
	Books      []domain.Book
	Err        error
}

// RunTask queries one library and returns the first result's booklist.
// A missing or empty response yields an empty list. Cancellation returns
// ErrSearchCancelled without logging; any other failure is logged and
// returned alongside an empty list.
func RunTask(ctx context.Context, client domain.CatalogClient, logger *slog.Logger, title, libraryName string) ([]domain.Book, error) {
	results, err := client.Search(ctx, title, libraryName)
	if err != nil {
		if ctx.Err() != nil || domain.IsCancellation(err) {
			return []domain.Book{}, domain.ErrSearchCancelled
		}
		logger.Error("search failed", "error", err, "title", title, "library", libraryName)
		return []domain.Book{}, err
	}
	if ctx.Err() != nil {
		return []domain.Book{}, domain.ErrSearchCancelled
	}

	if len(results) == 0 || results[0].Booklist == nil {
		return []domain.Book{}, nil
	}
	return results[0].Booklist, nil
}
