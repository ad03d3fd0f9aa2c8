package permission

import (
	"fmt"
	"strings"
)

const (
	// Delimiter separates the resource and action parts.
	Delimiter = ":"

	// WildcardToken matches everything in the position it occupies.
	WildcardToken = "*"
)

// Permission is a single "resource:action" grant.
type Permission string

// Wildcard grants every permission. Reserved for platform super roles.
const Wildcard Permission = "*"

// Platform administration.
const (
	PlatformManage     Permission = "platform:manage"
	PlatformOrgManage  Permission = "platform:org_manage"
	PlatformUserManage Permission = "platform:user_manage"
	PlatformRoleManage Permission = "platform:role_manage"
	PlatformSupport    Permission = "platform:support"
	PlatformAuditView  Permission = "platform:audit_view"
)

// Organization scope.
const (
	OrgView           Permission = "org:view"
	OrgEdit           Permission = "org:edit"
	OrgManage         Permission = "org:manage"
	OrgRoleManage     Permission = "org:role_manage"
	OrgUserManage     Permission = "org:user_manage"
	OrgSettingsManage Permission = "org:settings_manage"
	OrgAuditView      Permission = "org:audit_view"
)

// User profile and onboarding.
const (
	ProfileView      Permission = "profile:view"
	ProfileEdit      Permission = "profile:edit"
	OnboardingAccess Permission = "onboarding:access"
)

// Letter of credit workflow.
const (
	LCView    Permission = "lc:view"
	LCCreate  Permission = "lc:create"
	LCEdit    Permission = "lc:edit"
	LCSubmit  Permission = "lc:submit"
	LCApprove Permission = "lc:approve"
	LCAmend   Permission = "lc:amend"
	LCRelease Permission = "lc:release"
)

// Trade documents and compliance.
const (
	DocView          Permission = "doc:view"
	DocUpload        Permission = "doc:upload"
	DocVerify        Permission = "doc:verify"
	ComplianceView   Permission = "compliance:view"
	ComplianceReview Permission = "compliance:review"
)

// Reporting.
const (
	ReportView   Permission = "report:view"
	ReportExport Permission = "report:export"
)

// String returns the raw permission string.
func (p Permission) String() string { return string(p) }

// Resource returns the part before the delimiter, or the whole permission
// when it has no delimiter.
func (p Permission) Resource() string {
	s := string(p)
	if i := strings.Index(s, Delimiter); i >= 0 {
		return s[:i]
	}
	return s
}

// Action returns the part after the first delimiter, or "" when the
// permission has no delimiter.
func (p Permission) Action() string {
	s := string(p)
	if i := strings.Index(s, Delimiter); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// Validate reports whether p is well formed: the global wildcard, or
// non-empty colon-delimited parts where only the final part may be "*".
func (p Permission) Validate() error {
	s := string(p)
	if s == "" {
		return ErrInvalidPermission
	}
	if s == string(Wildcard) {
		return nil
	}
	if strings.ContainsAny(s, " \t\n") {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidPermission, s)
	}
	parts := strings.Split(s, Delimiter)
	for i, part := range parts {
		if part == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPermission, s)
		}
		if part == WildcardToken && i != len(parts)-1 {
			return fmt.Errorf("%w: %q has a non-terminal wildcard", ErrInvalidPermission, s)
		}
	}
	return nil
}

// ValidateAll validates every permission in the slice and reports the first
// malformed one.
func ValidateAll(perms []string) error {
	for _, p := range perms {
		if err := Permission(p).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Strings converts typed permissions to the plain string slice stored in
// role definitions.
func Strings(perms ...Permission) []string {
	if len(perms) == 0 {
		return nil
	}
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
