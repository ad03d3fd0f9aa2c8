package assignment

import (
	"fmt"
	"time"

	"github.com/lcflow/accesskit/svc/role"
)

// SystemOnboarding is the AssignedBy marker for grants made by the
// onboarding engine rather than a human actor.
const SystemOnboarding = "system:onboarding"

// Assignment binds one role to one user within one organization. The triple
// (UserID, RoleID, OrganizationID) has at most one active binding at a time.
// An empty OrganizationID means the binding is platform-wide.
type Assignment struct {
	ID             string             `bson:"_id" json:"id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	RoleID         string             `bson:"role_id" json:"role_id"`
	OrganizationID string             `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	AssignedBy     string             `bson:"assigned_by" json:"assigned_by"`
	AssignedAt     time.Time          `bson:"assigned_at" json:"assigned_at"`
	ExpiresAt      *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	IsTemporary    bool               `bson:"is_temporary" json:"is_temporary"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	RevokedAt      *time.Time         `bson:"revoked_at,omitempty" json:"revoked_at,omitempty"`
	RevokedBy      string             `bson:"revoked_by,omitempty" json:"revoked_by,omitempty"`
	Restrictions   []role.Restriction `bson:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// ActiveAt reports whether the binding is in force at the given time: the
// flag is set and any expiry lies in the future. Expired rows count as
// inactive regardless of their stored flag.
func (a *Assignment) ActiveAt(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}

// VisibleIn reports whether the binding applies within the given
// organization context. Platform-wide bindings apply everywhere.
func (a *Assignment) VisibleIn(organizationID string) bool {
	return a.OrganizationID == "" || a.OrganizationID == organizationID
}

// Request describes a role grant to perform.
type Request struct {
	UserID         string             `json:"user_id"`
	RoleID         string             `json:"role_id"`
	OrganizationID string             `json:"organization_id"`
	ExpiresAt      *time.Time         `json:"expires_at,omitempty"`
	IsTemporary    bool               `json:"is_temporary,omitempty"`
	Restrictions   []role.Restriction `json:"restrictions,omitempty"`
}

// Validate checks the request identifies a user and a role.
func (r *Request) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if r.RoleID == "" {
		return fmt.Errorf("%w: role id is required", ErrInvalidRequest)
	}
	for i := range r.Restrictions {
		if err := r.Restrictions[i].Validate(); err != nil {
			return fmt.Errorf("%w: restriction %d: %w", ErrInvalidRequest, i, err)
		}
	}
	return nil
}
