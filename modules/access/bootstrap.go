package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcflow/accesskit/pkg/binder"
	"github.com/lcflow/accesskit/pkg/handler"
	"github.com/lcflow/accesskit/pkg/validator"
	"github.com/lcflow/accesskit/svc/role"
)

// BootstrapService seeds role catalogs: the platform defaults once per
// deployment, and the organization catalog plus hierarchy snapshot when a
// new organization is onboarded. Both endpoints are idempotent.
type BootstrapService struct {
	roles *role.Service
	log   *slog.Logger
	fail  handler.ErrorHandler[handler.Context]
}

func NewBootstrapService(roles *role.Service, log *slog.Logger) *BootstrapService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &BootstrapService{
		roles: roles,
		log:   log,
		fail:  failFunc(log),
	}
}

func (s *BootstrapService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/platform", handler.Wrap(s.platform,
		handler.WithErrorHandler[handler.Context, struct{}](s.fail),
	))
	r.Post("/organizations/{orgID}", handler.Wrap(s.organization,
		handler.WithBinders[handler.Context, bootstrapOrgRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[handler.Context, bootstrapOrgRequest](s.fail),
	))

	return r
}

func (s *BootstrapService) platform(ctx handler.Context, _ struct{}) handler.Response {
	if err := s.roles.InitializeDefaultRoles(ctx); err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.Empty()
}

type bootstrapOrgRequest struct {
	OrganizationID string `path:"orgID" json:"-"`
	EntityType     string `json:"entity_type"`
}

func (s *BootstrapService) organization(ctx handler.Context, req bootstrapOrgRequest) handler.Response {
	if err := validator.Apply(
		validator.Required("entity_type", req.EntityType),
		validator.OneOf("entity_type", req.EntityType, []string{role.EntityTypeBank, role.EntityTypeCorporate}),
	); err != nil {
		return respondError(ctx, s.log, err)
	}

	if err := s.roles.InitializeOrganizationRoles(ctx, req.OrganizationID, req.EntityType); err != nil {
		return respondError(ctx, s.log, err)
	}

	h, err := s.roles.CreateOrganizationHierarchy(ctx, req.OrganizationID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(h, handler.WithJSONStatus(http.StatusCreated))
}
