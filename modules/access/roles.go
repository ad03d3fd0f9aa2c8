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

// RoleService exposes the role catalog over HTTP: definition CRUD,
// platform listings, and per-organization hierarchy views.
type RoleService struct {
	roles *role.Service
	log   *slog.Logger
	fail  handler.ErrorHandler[handler.Context]
}

func NewRoleService(roles *role.Service, log *slog.Logger) *RoleService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RoleService{
		roles: roles,
		log:   log,
		fail:  failFunc(log),
	}
}

func (s *RoleService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/", handler.Wrap(s.create,
		handler.WithBinders[handler.Context, createRoleRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, createRoleRequest](s.fail),
	))
	r.Get("/", handler.Wrap(s.list,
		handler.WithBinders[handler.Context, listRolesRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, listRolesRequest](s.fail),
	))
	r.Get("/platform", handler.Wrap(s.platform,
		handler.WithErrorHandler[handler.Context, struct{}](s.fail),
	))
	r.Get("/hierarchy/{orgID}", handler.Wrap(s.hierarchy,
		handler.WithBinders[handler.Context, hierarchyRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, hierarchyRequest](s.fail),
	))
	r.Post("/hierarchy/{orgID}", handler.Wrap(s.rebuildHierarchy,
		handler.WithBinders[handler.Context, hierarchyRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, hierarchyRequest](s.fail),
	))
	r.Get("/{id}", handler.Wrap(s.get,
		handler.WithBinders[handler.Context, roleByIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, roleByIDRequest](s.fail),
	))
	r.Patch("/{id}", handler.Wrap(s.update,
		handler.WithBinders[handler.Context, updateRoleRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[handler.Context, updateRoleRequest](s.fail),
	))
	r.Delete("/{id}", handler.Wrap(s.remove,
		handler.WithBinders[handler.Context, roleByIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, roleByIDRequest](s.fail),
	))

	return r
}

type createRoleRequest struct {
	Name           string             `json:"name"`
	DisplayName    string             `json:"display_name"`
	Description    string             `json:"description"`
	Level          string             `json:"level"`
	Category       string             `json:"category"`
	Permissions    []string           `json:"permissions"`
	OrganizationID string             `json:"organization_id"`
	EntityType     string             `json:"entity_type"`
	ParentRoleID   string             `json:"parent_role_id"`
	Restrictions   []role.Restriction `json:"restrictions"`
	IsDefault      bool               `json:"is_default"`
}

func (s *RoleService) create(ctx handler.Context, req createRoleRequest) handler.Response {
	created, err := s.roles.Create(ctx, role.Role{
		Name:           req.Name,
		DisplayName:    req.DisplayName,
		Description:    req.Description,
		Level:          role.Level(req.Level),
		Category:       role.Category(req.Category),
		Permissions:    req.Permissions,
		OrganizationID: req.OrganizationID,
		EntityType:     req.EntityType,
		ParentRoleID:   req.ParentRoleID,
		Restrictions:   req.Restrictions,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(created, handler.WithJSONStatus(http.StatusCreated))
}

type listRolesRequest struct {
	OrganizationID  string `query:"organization_id"`
	Level           string `query:"level"`
	IncludeSystem   bool   `query:"include_system"`
	IncludeInactive bool   `query:"include_inactive"`
}

func (s *RoleService) list(ctx handler.Context, req listRolesRequest) handler.Response {
	if req.Level != "" && !role.Level(req.Level).Valid() {
		var verrs validator.ValidationErrors
		verrs.Add("level", "must be one of the known role levels")
		return respondError(ctx, s.log, verrs)
	}

	roles, err := s.roles.List(ctx, role.Filter{
		OrganizationID: req.OrganizationID,
		Level:          role.Level(req.Level),
		IncludeSystem:  req.IncludeSystem,
		ActiveOnly:     !req.IncludeInactive,
	})
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(roles, handler.WithJSONMeta(map[string]any{"count": len(roles)}))
}

func (s *RoleService) platform(ctx handler.Context, _ struct{}) handler.Response {
	roles, err := s.roles.PlatformRoles(ctx)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(roles, handler.WithJSONMeta(map[string]any{"count": len(roles)}))
}

type hierarchyRequest struct {
	OrganizationID string `path:"orgID"`
}

func (s *RoleService) hierarchy(ctx handler.Context, req hierarchyRequest) handler.Response {
	h, err := s.roles.OrganizationHierarchy(ctx, req.OrganizationID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(h)
}

func (s *RoleService) rebuildHierarchy(ctx handler.Context, req hierarchyRequest) handler.Response {
	h, err := s.roles.CreateOrganizationHierarchy(ctx, req.OrganizationID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(h, handler.WithJSONStatus(http.StatusCreated))
}

type roleByIDRequest struct {
	ID string `path:"id"`
}

func (s *RoleService) get(ctx handler.Context, req roleByIDRequest) handler.Response {
	found, err := s.roles.ByID(ctx, req.ID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(found)
}

type updateRoleRequest struct {
	ID           string              `path:"id" json:"-"`
	DisplayName  *string             `json:"display_name"`
	Description  *string             `json:"description"`
	Permissions  *[]string           `json:"permissions"`
	Restrictions *[]role.Restriction `json:"restrictions"`
	IsDefault    *bool               `json:"is_default"`
	IsActive     *bool               `json:"is_active"`
}

func (s *RoleService) update(ctx handler.Context, req updateRoleRequest) handler.Response {
	actor := ActorID(ctx.Request())
	if actor == "" {
		return respondError(ctx, s.log, errMissingActor)
	}

	updated, err := s.roles.Update(ctx, req.ID, role.Patch{
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		Permissions:  req.Permissions,
		Restrictions: req.Restrictions,
		IsDefault:    req.IsDefault,
		IsActive:     req.IsActive,
	}, actor)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(updated)
}

func (s *RoleService) remove(ctx handler.Context, req roleByIDRequest) handler.Response {
	actor := ActorID(ctx.Request())
	if actor == "" {
		return respondError(ctx, s.log, errMissingActor)
	}

	if err := s.roles.Delete(ctx, req.ID, actor); err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.Empty()
}
