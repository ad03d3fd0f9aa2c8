package onboarding

import "context"

// Storage persists journeys. One journey exists per (user, organization)
// pair; Insert reports ErrJourneyExists when the slot is taken.
type Storage interface {
	Insert(ctx context.Context, j Journey) error
	Update(ctx context.Context, j Journey) error

	// Find returns the pair's journey regardless of completion.
	Find(ctx context.Context, userID, organizationID string) (Journey, error)

	// FindIncomplete returns the pair's journey only while it is still in
	// flight. Completed journeys report ErrJourneyNotFound.
	FindIncomplete(ctx context.Context, userID, organizationID string) (Journey, error)
}
