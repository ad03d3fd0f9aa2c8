// Package role owns the role catalog of the access control core: role
// definitions scoped to the platform, to an organization, or to an entity
// type, plus the derived management hierarchy and the static assignment
// rule table.
//
// Role definitions are persisted documents (see Storage). A role is never
// hard-deleted: Delete deactivates it, and system roles cannot be deleted
// at all. Name uniqueness is per (name, organization) scope, so a platform
// role and an organization role may share a name.
//
// The hierarchy produced by BuildHierarchy is an authorization-scoping
// forest ordered by the fixed level sequence, not an org chart. ParentRoleID
// and ChildRoles on a definition are catalog metadata and do not influence
// hierarchy shape.
//
// Basic usage:
//
//	svc := role.NewService(role.NewMemoryStorage(),
//		role.WithLogger(log),
//		role.WithRules(role.DefaultRules()),
//	)
//
//	if err := svc.InitializeDefaultRoles(ctx); err != nil { ... }
//	if err := svc.InitializeOrganizationRoles(ctx, orgID, "bank"); err != nil { ... }
//
//	r, err := svc.Create(ctx, role.Role{
//		Name:           "lc_desk_supervisor",
//		DisplayName:    "LC Desk Supervisor",
//		Level:          role.LevelEntitySpecific,
//		Category:       role.CategorySpecialist,
//		OrganizationID: orgID,
//		Permissions:    permission.Strings(permission.LCView, permission.LCApprove),
//	})
package role
