package access

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lcflow/accesskit/pkg/binder"
	"github.com/lcflow/accesskit/pkg/handler"
	"github.com/lcflow/accesskit/pkg/logger"
	"github.com/lcflow/accesskit/pkg/requestid"
	"github.com/lcflow/accesskit/pkg/validator"
	"github.com/lcflow/accesskit/svc/assignment"
	"github.com/lcflow/accesskit/svc/onboarding"
	"github.com/lcflow/accesskit/svc/role"
)

// errMissingActor rejects mutating requests that arrive without an acting
// user id in the context or the X-Actor-ID header.
var errMissingActor = handler.NewHTTPError(http.StatusUnauthorized, "missing_actor")

// statusMapping pairs each domain sentinel with the HTTP error it renders
// as. Validation errors bypass the table and surface as 422 with field
// details; anything unmapped becomes an opaque 500.
var statusMapping = []struct {
	sentinel error
	httpErr  handler.HTTPError
}{
	// 400: the request is malformed or internally inconsistent.
	{binder.ErrMissingContentType, handler.NewHTTPError(http.StatusBadRequest, "missing_content_type")},
	{binder.ErrFailedToParseJSON, handler.NewHTTPError(http.StatusBadRequest, "malformed_body")},
	{binder.ErrFailedToParseQuery, handler.NewHTTPError(http.StatusBadRequest, "malformed_query")},
	{binder.ErrFailedToParsePath, handler.NewHTTPError(http.StatusBadRequest, "malformed_path")},
	{role.ErrInvalidRole, handler.NewHTTPError(http.StatusBadRequest, "invalid_role")},
	{role.ErrInvalidRestriction, handler.NewHTTPError(http.StatusBadRequest, "invalid_restriction")},
	{assignment.ErrInvalidRequest, handler.NewHTTPError(http.StatusBadRequest, "invalid_assignment")},
	{assignment.ErrOrganizationMismatch, handler.NewHTTPError(http.StatusBadRequest, "organization_mismatch")},
	{onboarding.ErrInvalidJourney, handler.NewHTTPError(http.StatusBadRequest, "invalid_journey")},
	{onboarding.ErrInvalidStepNumber, handler.NewHTTPError(http.StatusBadRequest, "invalid_step")},

	// 403: the actor is authenticated but not allowed. The key stays
	// generic so responses do not enumerate which authority was missing.
	{assignment.ErrInsufficientPermission, handler.NewHTTPError(http.StatusForbidden, "insufficient_permissions")},
	{role.ErrSystemRoleProtected, handler.NewHTTPError(http.StatusForbidden, "system_role_protected")},

	// 404
	{role.ErrRoleNotFound, handler.NewHTTPError(http.StatusNotFound, "role_not_found")},
	{role.ErrHierarchyNotFound, handler.NewHTTPError(http.StatusNotFound, "hierarchy_not_found")},
	{assignment.ErrAssignmentNotFound, handler.NewHTTPError(http.StatusNotFound, "assignment_not_found")},
	{onboarding.ErrJourneyNotFound, handler.NewHTTPError(http.StatusNotFound, "journey_not_found")},

	// 409
	{role.ErrDuplicateRole, handler.NewHTTPError(http.StatusConflict, "role_exists")},
	{role.ErrRoleInUse, handler.NewHTTPError(http.StatusConflict, "role_in_use")},
	{assignment.ErrRoleAssignmentExists, handler.NewHTTPError(http.StatusConflict, "assignment_exists")},
	{onboarding.ErrJourneyExists, handler.NewHTTPError(http.StatusConflict, "journey_exists")},

	// 415
	{binder.ErrUnsupportedMediaType, handler.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")},
}

// mapError translates a domain error into its HTTP representation.
// Validation errors pass through untouched so the JSON envelope can
// carry their field details.
func mapError(err error) error {
	if validator.IsValidationError(err) {
		return err
	}
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	for _, m := range statusMapping {
		if errors.Is(err, m.sentinel) {
			return m.httpErr
		}
	}
	return err
}

// respondError maps err, logs it with request context, and returns the
// JSON error response. Client errors log at warn, server errors at error.
func respondError(ctx handler.Context, log *slog.Logger, err error) handler.Response {
	mapped := mapError(err)

	status := http.StatusInternalServerError
	if validator.IsValidationError(mapped) {
		status = http.StatusUnprocessableEntity
	} else if httpErr, ok := mapped.(handler.HTTPError); ok {
		status = httpErr.Code
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.LogAttrs(ctx, level, "request failed",
		logger.Error(err),
		slog.Int("status", status),
		slog.String("method", ctx.Request().Method),
		slog.String("path", ctx.Request().URL.Path),
		logger.RequestID(requestid.FromContext(ctx)),
	)

	return handler.JSONError(mapped)
}

// failFunc builds the Wrap error handler shared by every service in the
// module. It covers binder and render failures with the same mapping as
// in-handler errors.
func failFunc(log *slog.Logger) handler.ErrorHandler[handler.Context] {
	return func(ctx handler.Context, err error) {
		resp := respondError(ctx, log, err)
		if renderErr := resp.Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
			http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
