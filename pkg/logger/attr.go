package logger

import (
	"log/slog"
	"strconv"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// UserID records the subject user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// ActorID records who performed the operation under the key "actor_id".
func ActorID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("actor_id", id)
}

// OrganizationID records the tenant scope under the key "organization_id".
func OrganizationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("organization_id", id)
}

// Role records a role name under the key "role".
func Role(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("role", name)
}

// RoleID records a role definition identifier under the key "role_id".
func RoleID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("role_id", id)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Step records an onboarding step number under the key "step".
func Step(n int) slog.Attr {
	return slog.Int("step", n)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records an operation duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
