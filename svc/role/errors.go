package role

import "errors"

var (
	// ErrInvalidRole is returned when a role definition fails validation.
	ErrInvalidRole = errors.New("invalid role definition")

	// ErrInvalidRestriction is returned when a restriction payload does not
	// match its declared type.
	ErrInvalidRestriction = errors.New("invalid restriction")

	// ErrDuplicateRole is returned when a role with the same name already
	// exists in the same organization scope.
	ErrDuplicateRole = errors.New("role already exists")

	// ErrRoleNotFound is returned when a role lookup by id or name finds
	// nothing.
	ErrRoleNotFound = errors.New("role not found")

	// ErrSystemRoleProtected is returned when attempting to delete a system
	// role.
	ErrSystemRoleProtected = errors.New("system role cannot be deleted")

	// ErrRoleInUse is returned when deleting a role that still has active
	// assignments.
	ErrRoleInUse = errors.New("role has active assignments")

	// ErrHierarchyNotFound is returned when no hierarchy snapshot exists for
	// an organization.
	ErrHierarchyNotFound = errors.New("role hierarchy not found")

	// ErrInvalidRules is returned when an assignment rule override file is
	// malformed.
	ErrInvalidRules = errors.New("invalid assignment rules")
)
