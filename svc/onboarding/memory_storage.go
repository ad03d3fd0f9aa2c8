package onboarding

import (
	"context"
	"maps"
	"slices"
	"sync"
)

type journeyKey struct {
	userID         string
	organizationID string
}

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu       sync.RWMutex
	journeys map[journeyKey]Journey
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{journeys: make(map[journeyKey]Journey)}
}

func (s *MemoryStorage) Insert(_ context.Context, j Journey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := journeyKey{j.UserID, j.OrganizationID}
	if _, exists := s.journeys[key]; exists {
		return ErrJourneyExists
	}
	s.journeys[key] = cloneJourney(j)
	return nil
}

func (s *MemoryStorage) Update(_ context.Context, j Journey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := journeyKey{j.UserID, j.OrganizationID}
	if _, exists := s.journeys[key]; !exists {
		return ErrJourneyNotFound
	}
	s.journeys[key] = cloneJourney(j)
	return nil
}

func (s *MemoryStorage) Find(_ context.Context, userID, organizationID string) (Journey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.journeys[journeyKey{userID, organizationID}]
	if !ok {
		return Journey{}, ErrJourneyNotFound
	}
	return cloneJourney(j), nil
}

func (s *MemoryStorage) FindIncomplete(_ context.Context, userID, organizationID string) (Journey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.journeys[journeyKey{userID, organizationID}]
	if !ok || j.IsComplete {
		return Journey{}, ErrJourneyNotFound
	}
	return cloneJourney(j), nil
}

func cloneJourney(j Journey) Journey {
	j.CompletedSteps = slices.Clone(j.CompletedSteps)
	j.TemporaryPermissions = slices.Clone(j.TemporaryPermissions)
	j.AssignedRoles = slices.Clone(j.AssignedRoles)
	if j.StepData != nil {
		data := make(map[string]map[string]any, len(j.StepData))
		for key, fields := range j.StepData {
			data[key] = maps.Clone(fields)
		}
		j.StepData = data
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		j.CompletedAt = &t
	}
	return j
}
