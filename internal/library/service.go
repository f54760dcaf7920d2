package library

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/mmcdole/dlserver/internal/domain"
)

// Service loads the library directory once per session.
type Service struct {
	client domain.CatalogClient
	logger *slog.Logger
}

// NewService creates a new library service.
func NewService(client domain.CatalogClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// FetchLibraries requests the directory and returns it sorted by name.
// On failure it logs and returns an empty list; there is no retry.
func (s *Service) FetchLibraries(ctx context.Context) []domain.Library {
	names, err := s.client.LibraryNames(ctx)
	if err != nil {
		if !domain.IsCancellation(err) {
			s.logger.Error("failed to fetch libraries", "error", err)
		}
		return []domain.Library{}
	}

	libs := MapLibraries(names)
	s.logger.Debug("fetched libraries", "count", len(libs))
	return libs
}

// MapLibraries assigns each name its zero-based position as ID and sorts
// the result by name, case-insensitively and stably.
func MapLibraries(names []string) []domain.Library {
	libs := make([]domain.Library, 0, len(names))
	for i, name := range names {
		libs = append(libs, domain.Library{ID: i, Name: name})
	}
	SortByName(libs)
	return libs
}

// SortByName sorts libraries in place by case-insensitive name.
func SortByName(libs []domain.Library) {
	sort.SliceStable(libs, func(i, j int) bool {
		return strings.ToUpper(libs[i].Name) < strings.ToUpper(libs[j].Name)
	})
}

// Names returns the names of libs in order.
func Names(libs []domain.Library) []string {
	names := make([]string, len(libs))
	for i, lib := range libs {
		names[i] = lib.Name
	}
	return names
}
