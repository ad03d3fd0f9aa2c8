package role

import (
	"fmt"
	"time"

	"github.com/lcflow/accesskit/pkg/permission"
)

// Level is the scope tier of a role. The order of tiers is fixed and drives
// hierarchy construction: platform roles sit above organization roles, which
// sit above entity-specific roles.
type Level string

const (
	LevelPlatform             Level = "platform"
	LevelOrganizationSuper    Level = "organization_super"
	LevelOrganizationAdmin    Level = "organization_admin"
	LevelOrganizationStandard Level = "organization_standard"
	LevelEntitySpecific       Level = "entity_specific"
)

// LevelOrder returns the fixed tier sequence, highest scope first.
func LevelOrder() []Level {
	return []Level{
		LevelPlatform,
		LevelOrganizationSuper,
		LevelOrganizationAdmin,
		LevelOrganizationStandard,
		LevelEntitySpecific,
	}
}

// Rank returns the 1-based position of the level in the fixed sequence,
// or 0 for an unknown level.
func (l Level) Rank() int {
	for i, lvl := range LevelOrder() {
		if l == lvl {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether the level is one of the fixed tiers.
func (l Level) Valid() bool { return l.Rank() > 0 }

// Category classifies a role for display and reporting. It carries no
// authorization semantics.
type Category string

const (
	CategorySystem     Category = "system"
	CategoryAdmin      Category = "admin"
	CategoryManager    Category = "manager"
	CategoryUser       Category = "user"
	CategoryViewer     Category = "viewer"
	CategorySpecialist Category = "specialist"
)

// Valid reports whether the category is known.
func (c Category) Valid() bool {
	switch c {
	case CategorySystem, CategoryAdmin, CategoryManager, CategoryUser, CategoryViewer, CategorySpecialist:
		return true
	}
	return false
}

// Role is a named set of permissions scoped to the platform (empty
// OrganizationID), to one organization, or further to one entity type
// within it. Name is unique per (name, organization) scope.
//
// Level, Name, and OrganizationID are immutable after creation. IsActive
// false means the role is soft-deleted and excluded from hierarchies and
// permission resolution.
type Role struct {
	ID             string        `bson:"_id" json:"id"`
	Name           string        `bson:"name" json:"name"`
	DisplayName    string        `bson:"display_name" json:"display_name"`
	Description    string        `bson:"description,omitempty" json:"description,omitempty"`
	Level          Level         `bson:"level" json:"level"`
	Category       Category      `bson:"category" json:"category"`
	Permissions    []string      `bson:"permissions" json:"permissions"`
	OrganizationID string        `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	EntityType     string        `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	ParentRoleID   string        `bson:"parent_role_id,omitempty" json:"parent_role_id,omitempty"`
	ChildRoles     []string      `bson:"child_roles,omitempty" json:"child_roles,omitempty"`
	Restrictions   []Restriction `bson:"restrictions,omitempty" json:"restrictions,omitempty"`
	IsDefault      bool          `bson:"is_default" json:"is_default"`
	IsSystemRole   bool          `bson:"is_system_role" json:"is_system_role"`
	IsActive       bool          `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

// IsPlatform reports whether the role is platform-scoped.
func (r *Role) IsPlatform() bool { return r.OrganizationID == "" }

// Validate checks the fields required to persist a role.
func (r *Role) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRole)
	}
	if !r.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidRole, r.Level)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRole, r.Category)
	}
	if err := permission.ValidateAll(r.Permissions); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRole, err)
	}
	for i := range r.Restrictions {
		if err := r.Restrictions[i].Validate(); err != nil {
			return fmt.Errorf("%w: restriction %d: %w", ErrInvalidRole, i, err)
		}
	}
	return nil
}

// Patch is a partial update for a role. Nil fields are left untouched.
// Level, Name, and OrganizationID are deliberately absent.
type Patch struct {
	DisplayName  *string        `json:"display_name,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Permissions  *[]string      `json:"permissions,omitempty"`
	Restrictions *[]Restriction `json:"restrictions,omitempty"`
	IsDefault    *bool          `json:"is_default,omitempty"`
	IsActive     *bool          `json:"is_active,omitempty"`
}

func (p Patch) apply(r *Role) error {
	if p.DisplayName != nil {
		r.DisplayName = *p.DisplayName
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Permissions != nil {
		if err := permission.ValidateAll(*p.Permissions); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRole, err)
		}
		r.Permissions = *p.Permissions
	}
	if p.Restrictions != nil {
		for i := range *p.Restrictions {
			if err := (*p.Restrictions)[i].Validate(); err != nil {
				return fmt.Errorf("%w: restriction %d: %w", ErrInvalidRole, i, err)
			}
		}
		r.Restrictions = *p.Restrictions
	}
	if p.IsDefault != nil {
		r.IsDefault = *p.IsDefault
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
	return nil
}
