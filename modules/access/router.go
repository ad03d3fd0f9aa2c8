package access

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcflow/accesskit/pkg/requestid"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the access module.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Roles       Mountable
	Assignments Mountable
	Onboarding  Mountable
	Bootstrap   Mountable
}

// Router creates a new access module router with configurable services.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/access", access.Router(access.RouterOptions{
//	    Roles:       access.NewRoleService(roleSvc, log),
//	    Assignments: access.NewAssignmentService(ledger, log),
//	    Onboarding:  access.NewOnboardingService(journeys, log),
//	    Bootstrap:   access.NewBootstrapService(roleSvc, log),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(actorMiddleware)

	if opts.Roles != nil {
		r.Mount("/roles", opts.Roles.Handle())
	}
	if opts.Assignments != nil {
		r.Mount("/assignments", opts.Assignments.Handle())
	}
	if opts.Onboarding != nil {
		r.Mount("/onboarding", opts.Onboarding.Handle())
	}
	if opts.Bootstrap != nil {
		r.Mount("/bootstrap", opts.Bootstrap.Handle())
	}

	return r
}
