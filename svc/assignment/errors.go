package assignment

import "errors"

var (
	// ErrInvalidRequest is returned when an assignment request is missing
	// required fields.
	ErrInvalidRequest = errors.New("invalid assignment request")

	// ErrInsufficientPermission is returned when the actor may not assign or
	// revoke the requested role. The message is deliberately generic so
	// callers cannot probe which role or permission was missing.
	ErrInsufficientPermission = errors.New("insufficient permissions")

	// ErrRoleAssignmentExists is returned when the user already holds an
	// active binding of the role in the organization.
	ErrRoleAssignmentExists = errors.New("role already assigned to user")

	// ErrAssignmentNotFound is returned when no active binding matches the
	// triple.
	ErrAssignmentNotFound = errors.New("role assignment not found")

	// ErrOrganizationMismatch is returned when the role belongs to a
	// different organization than the request targets.
	ErrOrganizationMismatch = errors.New("role belongs to a different organization")
)
