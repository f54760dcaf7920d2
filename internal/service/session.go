package service

import (
	"errors"
	"log/slog"

	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/search"
	"github.com/mmcdole/dlserver/internal/urlstate"
)

// SessionService owns session start-up and teardown state.
type SessionService struct {
	store  domain.Store
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(store domain.Store, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{store: store, logger: logger}
}

// InitialAddress picks the address a session starts at: the explicit one
// when given, else the last address saved at exit when restore is on.
func (s *SessionService) InitialAddress(explicit string, restore bool) string {
	if explicit != "" || !restore || s.store == nil {
		return explicit
	}
	data, ok := s.store.Get(domain.KeyLastAddress)
	if !ok {
		return ""
	}
	return string(data)
}

// Close cancels any in-flight search, saves the current address and closes
// the store.
func (s *SessionService) Close(orch *search.Orchestrator, nav *urlstate.Navigator) error {
	if orch != nil {
		orch.Close()
	}

	if s.store == nil {
		return nil
	}

	var errs []error
	if nav != nil {
		if err := s.store.Put(domain.KeyLastAddress, []byte(nav.Current())); err != nil {
			s.logger.Warn("failed to save last address", "error", err)
			errs = append(errs, err)
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
