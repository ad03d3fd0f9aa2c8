// Package handler provides a type-safe bridge between net/http and
// domain services that speak typed requests and responses.
//
// A handler is a generic function from a context and a bound request
// struct to a Response. Wrap converts it into an http.HandlerFunc,
// running the configured binders over the incoming request first:
//
//	type createRoleRequest struct {
//		Name        string   `json:"name"`
//		Permissions []string `json:"permissions"`
//	}
//
//	h := handler.HandlerFunc[handler.Context, createRoleRequest](
//		func(ctx handler.Context, req createRoleRequest) handler.Response {
//			role, err := svc.CreateRole(ctx, toInput(req))
//			if err != nil {
//				return handler.JSONError(err)
//			}
//			return handler.JSON(role, handler.WithJSONStatus(http.StatusCreated))
//		},
//	)
//
//	mux.Handle("POST /roles", handler.Wrap(h,
//		handler.WithBinders[handler.Context, createRoleRequest](binder.JSON()),
//	))
//
// Responses render themselves; JSON and JSONError produce the standard
// envelope with data, meta, and error sections. Validation failures
// surface as 422 with per-field details, HTTPError values carry their
// own status, and everything else becomes an opaque 500.
package handler
