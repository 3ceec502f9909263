package service

import (
	"log/slog"
	"sync/atomic"

	"github.com/okhotnikdev/mediagate/internal/modules/admin/domain"
	"github.com/okhotnikdev/mediagate/internal/modules/admin/repository"
)

// Service answers admin-gate checks against the current allow-list
// snapshot and swaps in a new one on demand.
type Service struct {
	repo     repository.Repository
	snapshot atomic.Pointer[domain.Snapshot]
}

// New creates a new admin service. A failed initial load starts the
// service with an empty snapshot instead of aborting startup.
func New(repo repository.Repository) *Service {
	s := &Service{repo: repo}
	if _, err := s.Reload(); err != nil {
		slog.Warn("Admin list unavailable, starting with open access", "error", err)
		s.snapshot.Store(domain.NewSnapshot(nil))
	}
	return s
}

// IsAdmin reports whether the user may use admin commands
func (s *Service) IsAdmin(userID int64) bool {
	return s.snapshot.Load().Allows(userID)
}

// Reload re-reads the allow list and swaps the snapshot, returning the
// new admin count.
func (s *Service) Reload() (int, error) {
	ids, err := s.repo.Load()
	if err != nil {
		return 0, err
	}

	snap := domain.NewSnapshot(ids)
	s.snapshot.Store(snap)
	if snap.Len() == 0 {
		slog.Warn("Admin list is empty, all users are allowed")
	} else {
		slog.Info("Admin list loaded", "count", snap.Len())
	}
	return snap.Len(), nil
}
