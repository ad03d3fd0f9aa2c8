// Package assignment owns role-to-user bindings: who granted which role to
// whom, in which organization, and until when. It is the source of truth for
// effective permissions.
//
// Authorization of grant and revoke requests runs against the assignment
// rule table: an actor may assign a role only if one of their own active
// roles carries a rule allowing it. Grant is the internal trust path used by
// bootstrap and onboarding; it skips the authority gate but keeps every data
// integrity check.
//
// A triple (user, role, organization) has at most one active binding. The
// storage enforces this with a partial unique index, so a constraint
// violation on insert is the authoritative duplicate signal; pre-checks are
// just fast-fail optimizations. Expired bindings are treated as inactive by
// every read path even before their flag is flipped.
//
// Basic usage:
//
//	svc := assignment.NewService(storage, roleSvc,
//		assignment.WithRules(roleSvc.Rules()),
//		assignment.WithAuditRecorder(recorder),
//	)
//
//	a, err := svc.Assign(ctx, assignment.Request{
//		UserID:         userID,
//		RoleID:         officerRoleID,
//		OrganizationID: orgID,
//	}, actorID)
//
//	ok, err := svc.HasPermission(ctx, userID, "lc:approve", orgID)
package assignment
