package assignment

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage for tests and local development. It
// enforces the same one-active-binding-per-triple constraint as the Mongo
// storage.
type MemoryStorage struct {
	mu          sync.RWMutex
	assignments map[string]Assignment
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{assignments: make(map[string]Assignment)}
}

func (s *MemoryStorage) Insert(_ context.Context, a Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if existing.IsActive &&
			existing.UserID == a.UserID &&
			existing.RoleID == a.RoleID &&
			existing.OrganizationID == a.OrganizationID {
			return ErrRoleAssignmentExists
		}
	}
	s.assignments[a.ID] = cloneAssignment(a)
	return nil
}

func (s *MemoryStorage) Update(_ context.Context, a Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assignments[a.ID]; !ok {
		return ErrAssignmentNotFound
	}
	s.assignments[a.ID] = cloneAssignment(a)
	return nil
}

func (s *MemoryStorage) Find(_ context.Context, userID, roleID, organizationID string) (Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.assignments {
		if a.IsActive && a.UserID == userID && a.RoleID == roleID && a.OrganizationID == organizationID {
			return cloneAssignment(a), nil
		}
	}
	return Assignment{}, ErrAssignmentNotFound
}

func (s *MemoryStorage) ListActiveByUser(_ context.Context, userID string, now time.Time) ([]Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Assignment
	for _, a := range s.assignments {
		if a.UserID == userID && a.ActiveAt(now) {
			out = append(out, cloneAssignment(a))
		}
	}
	slices.SortFunc(out, func(x, y Assignment) int {
		return x.AssignedAt.Compare(y.AssignedAt)
	})
	return out, nil
}

func (s *MemoryStorage) CountActiveByRole(_ context.Context, roleID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	var n int64
	for _, a := range s.assignments {
		if a.RoleID == roleID && a.ActiveAt(now) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStorage) CountManagedUsers(_ context.Context, assignedBy, organizationID string, now time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]struct{})
	for _, a := range s.assignments {
		if a.AssignedBy == assignedBy && a.OrganizationID == organizationID && a.ActiveAt(now) {
			users[a.UserID] = struct{}{}
		}
	}
	return int64(len(users)), nil
}

func cloneAssignment(a Assignment) Assignment {
	a.Restrictions = slices.Clone(a.Restrictions)
	if a.ExpiresAt != nil {
		t := *a.ExpiresAt
		a.ExpiresAt = &t
	}
	if a.RevokedAt != nil {
		t := *a.RevokedAt
		a.RevokedAt = &t
	}
	return a
}
