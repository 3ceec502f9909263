package domain

import "time"

// Snapshot is an immutable view of the admin allow list. Lookups never
// see a half-loaded list; a reload swaps the whole snapshot at once.
type Snapshot struct {
	ids      map[int64]struct{}
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from a list of admin IDs.
func NewSnapshot(ids []int64) *Snapshot {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Snapshot{ids: set, loadedAt: time.Now().UTC()}
}

// Allows reports whether the user may use admin commands. An empty list
// allows everyone, which keeps a fresh deployment usable before the list
// is filled in.
func (s *Snapshot) Allows(userID int64) bool {
	if len(s.ids) == 0 {
		return true
	}
	_, ok := s.ids[userID]
	return ok
}

// Len returns the number of listed admins.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// LoadedAt returns when the snapshot was taken.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}
