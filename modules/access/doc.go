// Package access exposes the role, assignment, and onboarding services
// over a JSON HTTP API.
//
// Each concern is a separately mountable service so applications can pick
// the surface they need:
//
//	roleSvc := role.NewService(roleStorage, role.WithLogger(log))
//	ledger := assignment.NewService(assignmentStorage, roleSvc,
//		assignment.WithRules(roleSvc.Rules()))
//	journeys := onboarding.NewService(journeyStorage, roleSvc, ledger)
//
//	r := chi.NewRouter()
//	r.Mount("/access", access.Router(access.RouterOptions{
//		Roles:       access.NewRoleService(roleSvc, log),
//		Assignments: access.NewAssignmentService(ledger, log),
//		Onboarding:  access.NewOnboardingService(journeys, log),
//		Bootstrap:   access.NewBootstrapService(roleSvc, log),
//	}))
//
// Mutating role and assignment endpoints identify the acting user through
// the request context (see WithActor) or the X-Actor-ID header, which is
// expected to be set by an upstream authentication layer.
package access
