// Package binder decodes HTTP request data into Go structs.
//
// Each constructor returns a binding function that reads one source from
// the request: JSON bodies, query strings, or router path values. Binders
// are composable, so a single request struct can collect fields from
// several sources:
//
//	type updateRoleRequest struct {
//		RoleID      string   `path:"id" json:"-"`
//		DisplayName string   `json:"display_name"`
//		Permissions []string `json:"permissions"`
//	}
//
//	bindJSON := binder.JSON()
//	bindPath := binder.Path(chi.URLParam)
//
// Struct tags follow the encoding/json conventions: an absent tag falls
// back to the lowercased field name, and "-" skips the field. Slice
// fields accept repeated query values as well as comma separated lists.
package binder
