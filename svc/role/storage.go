package role

import "context"

// Filter narrows a role listing. OrganizationID selects that organization's
// scope; IncludeSystem additionally pulls in platform-scoped roles. Zero
// Level means any level. ActiveOnly excludes soft-deleted roles.
type Filter struct {
	OrganizationID string
	Level          Level
	IncludeSystem  bool
	ActiveOnly     bool
}

// Storage persists role definitions.
//
// Insert returns ErrDuplicateRole when a role with the same (name,
// organization) scope already exists. FindByID and FindByName return
// ErrRoleNotFound on a miss.
type Storage interface {
	Insert(ctx context.Context, r Role) error
	Update(ctx context.Context, r Role) error
	FindByID(ctx context.Context, id string) (Role, error)
	FindByName(ctx context.Context, name, organizationID string) (Role, error)
	List(ctx context.Context, f Filter) ([]Role, error)
}

// HierarchyStorage persists per-organization hierarchy snapshots. Save
// replaces an existing snapshot for the same organization. Find returns
// ErrHierarchyNotFound on a miss.
type HierarchyStorage interface {
	SaveHierarchy(ctx context.Context, h Hierarchy) error
	FindHierarchy(ctx context.Context, organizationID string) (Hierarchy, error)
}

// AssignmentCounter reports how many active assignments reference a role.
// Implemented by the assignment ledger; wired in at composition time so the
// catalog can refuse to delete roles still in use.
type AssignmentCounter interface {
	CountActiveByRole(ctx context.Context, roleID string) (int64, error)
}
