package role

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStorage is an in-memory Storage and HierarchyStorage used by tests
// and local development. Documents are copied on the way in and out so
// callers cannot mutate stored slice state.
type MemoryStorage struct {
	mu          sync.RWMutex
	roles       map[string]Role
	hierarchies map[string]Hierarchy
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		roles:       make(map[string]Role),
		hierarchies: make(map[string]Hierarchy),
	}
}

func (s *MemoryStorage) Insert(_ context.Context, r Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.roles {
		if existing.Name == r.Name && existing.OrganizationID == r.OrganizationID {
			return ErrDuplicateRole
		}
	}
	s.roles[r.ID] = cloneRole(r)
	return nil
}

func (s *MemoryStorage) Update(_ context.Context, r Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[r.ID]; !ok {
		return ErrRoleNotFound
	}
	s.roles[r.ID] = cloneRole(r)
	return nil
}

func (s *MemoryStorage) FindByID(_ context.Context, id string) (Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return cloneRole(r), nil
}

func (s *MemoryStorage) FindByName(_ context.Context, name, organizationID string) (Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.roles {
		if r.Name == name && r.OrganizationID == organizationID {
			return cloneRole(r), nil
		}
	}
	return Role{}, ErrRoleNotFound
}

func (s *MemoryStorage) List(_ context.Context, f Filter) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Role
	for _, r := range s.roles {
		if !matchesFilter(r, f) {
			continue
		}
		out = append(out, cloneRole(r))
	}
	slices.SortFunc(out, func(a, b Role) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *MemoryStorage) SaveHierarchy(_ context.Context, h Hierarchy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hierarchies[h.OrganizationID] = h
	return nil
}

func (s *MemoryStorage) FindHierarchy(_ context.Context, organizationID string) (Hierarchy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hierarchies[organizationID]
	if !ok {
		return Hierarchy{}, ErrHierarchyNotFound
	}
	return h, nil
}

func matchesFilter(r Role, f Filter) bool {
	if f.ActiveOnly && !r.IsActive {
		return false
	}
	if f.Level != "" && r.Level != f.Level {
		return false
	}
	switch {
	case f.OrganizationID == "":
		// Platform scope listing.
		if r.OrganizationID != "" {
			return false
		}
	case f.IncludeSystem:
		if r.OrganizationID != f.OrganizationID && r.OrganizationID != "" {
			return false
		}
	default:
		if r.OrganizationID != f.OrganizationID {
			return false
		}
	}
	return true
}

func cloneRole(r Role) Role {
	r.Permissions = slices.Clone(r.Permissions)
	r.ChildRoles = slices.Clone(r.ChildRoles)
	r.Restrictions = slices.Clone(r.Restrictions)
	return r
}
