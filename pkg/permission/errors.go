package permission

import "errors"

// ErrInvalidPermission is returned for malformed permission strings.
var ErrInvalidPermission = errors.New("permission: invalid permission format")
