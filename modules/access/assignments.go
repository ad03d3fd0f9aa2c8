package access

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lcflow/accesskit/pkg/binder"
	"github.com/lcflow/accesskit/pkg/handler"
	"github.com/lcflow/accesskit/pkg/validator"
	"github.com/lcflow/accesskit/svc/assignment"
	"github.com/lcflow/accesskit/svc/role"
)

// AssignmentService exposes the assignment ledger over HTTP: granting and
// revoking role bindings plus per-user role and permission lookups.
type AssignmentService struct {
	assignments *assignment.Service
	log         *slog.Logger
	fail        handler.ErrorHandler[handler.Context]
}

func NewAssignmentService(assignments *assignment.Service, log *slog.Logger) *AssignmentService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &AssignmentService{
		assignments: assignments,
		log:         log,
		fail:        failFunc(log),
	}
}

func (s *AssignmentService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/", handler.Wrap(s.assign,
		handler.WithBinders[handler.Context, assignRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, assignRequest](s.fail),
	))
	r.Delete("/", handler.Wrap(s.revoke,
		handler.WithBinders[handler.Context, revokeRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, revokeRequest](s.fail),
	))
	r.Get("/count", handler.Wrap(s.count,
		handler.WithBinders[handler.Context, countRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, countRequest](s.fail),
	))
	r.Get("/users/{userID}/roles", handler.Wrap(s.userRoles,
		handler.WithBinders[handler.Context, userScopeRequest](binder.Path(chi.URLParam), binder.Query()),
		handler.WithErrorHandler[handler.Context, userScopeRequest](s.fail),
	))
	r.Get("/users/{userID}/permissions", handler.Wrap(s.userPermissions,
		handler.WithBinders[handler.Context, userScopeRequest](binder.Path(chi.URLParam), binder.Query()),
		handler.WithErrorHandler[handler.Context, userScopeRequest](s.fail),
	))
	r.Get("/users/{userID}/permissions/check", handler.Wrap(s.checkPermission,
		handler.WithBinders[handler.Context, checkPermissionRequest](binder.Path(chi.URLParam), binder.Query()),
		handler.WithErrorHandler[handler.Context, checkPermissionRequest](s.fail),
	))

	return r
}

type assignRequest struct {
	UserID         string             `json:"user_id"`
	RoleID         string             `json:"role_id"`
	OrganizationID string             `json:"organization_id"`
	ExpiresAt      *time.Time         `json:"expires_at"`
	IsTemporary    bool               `json:"is_temporary"`
	Restrictions   []role.Restriction `json:"restrictions"`
}

func (s *AssignmentService) assign(ctx handler.Context, req assignRequest) handler.Response {
	actor := ActorID(ctx.Request())
	if actor == "" {
		return respondError(ctx, s.log, errMissingActor)
	}

	created, err := s.assignments.Assign(ctx, assignment.Request{
		UserID:         req.UserID,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
		ExpiresAt:      req.ExpiresAt,
		IsTemporary:    req.IsTemporary,
		Restrictions:   req.Restrictions,
	}, actor)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(created, handler.WithJSONStatus(http.StatusCreated))
}

type revokeRequest struct {
	UserID         string `json:"user_id"`
	RoleID         string `json:"role_id"`
	OrganizationID string `json:"organization_id"`
}

func (s *AssignmentService) revoke(ctx handler.Context, req revokeRequest) handler.Response {
	actor := ActorID(ctx.Request())
	if actor == "" {
		return respondError(ctx, s.log, errMissingActor)
	}

	if err := s.assignments.Revoke(ctx, req.UserID, req.RoleID, req.OrganizationID, actor); err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.Empty()
}

type countRequest struct {
	RoleID string `query:"role_id"`
}

func (s *AssignmentService) count(ctx handler.Context, req countRequest) handler.Response {
	if req.RoleID == "" {
		var verrs validator.ValidationErrors
		verrs.Add("role_id", "is required")
		return respondError(ctx, s.log, verrs)
	}

	n, err := s.assignments.CountActiveByRole(ctx, req.RoleID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(map[string]int64{"count": n})
}

type userScopeRequest struct {
	UserID         string `path:"userID"`
	OrganizationID string `query:"organization_id"`
}

func (s *AssignmentService) userRoles(ctx handler.Context, req userScopeRequest) handler.Response {
	list, err := s.assignments.UserRoles(ctx, req.UserID, req.OrganizationID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(list, handler.WithJSONMeta(map[string]any{"count": len(list)}))
}

func (s *AssignmentService) userPermissions(ctx handler.Context, req userScopeRequest) handler.Response {
	perms, err := s.assignments.UserPermissions(ctx, req.UserID, req.OrganizationID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(perms, handler.WithJSONMeta(map[string]any{"count": len(perms)}))
}

type checkPermissionRequest struct {
	UserID         string `path:"userID"`
	Permission     string `query:"permission"`
	OrganizationID string `query:"organization_id"`
}

func (s *AssignmentService) checkPermission(ctx handler.Context, req checkPermissionRequest) handler.Response {
	if req.Permission == "" {
		var verrs validator.ValidationErrors
		verrs.Add("permission", "is required")
		return respondError(ctx, s.log, verrs)
	}

	allowed, err := s.assignments.HasPermission(ctx, req.UserID, req.Permission, req.OrganizationID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(map[string]bool{"allowed": allowed})
}
