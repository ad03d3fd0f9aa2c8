package assignment

import (
	"context"
	"time"
)

// Storage persists role bindings.
//
// Insert must reject a second flagged-active binding for the same (user,
// role, organization) triple with ErrRoleAssignmentExists; that constraint,
// not any pre-check, is the source of truth for duplicates. Expiry filtering
// is the caller's concern except where a now parameter is taken explicitly.
type Storage interface {
	Insert(ctx context.Context, a Assignment) error
	Update(ctx context.Context, a Assignment) error

	// Find returns the binding currently flagged active for the triple,
	// regardless of expiry. ErrAssignmentNotFound when none.
	Find(ctx context.Context, userID, roleID, organizationID string) (Assignment, error)

	// ListActiveByUser returns the user's bindings across all organizations
	// that are flagged active and not expired at now.
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]Assignment, error)

	// CountActiveByRole counts unexpired active bindings of a role across
	// all users and organizations.
	CountActiveByRole(ctx context.Context, roleID string) (int64, error)

	// CountManagedUsers counts distinct users with an unexpired active
	// binding assigned by the given actor within one organization.
	CountManagedUsers(ctx context.Context, assignedBy, organizationID string, now time.Time) (int64, error)
}
