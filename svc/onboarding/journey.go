package onboarding

import (
	"fmt"
	"slices"
	"time"
)

// Journey is one user's onboarding run within one organization. CurrentStep
// advances by exactly one per successful CompleteStep; IsComplete flips
// false to true exactly once, after which AssignedRoles is never revised.
type Journey struct {
	ID                   string                    `bson:"_id" json:"id"`
	UserID               string                    `bson:"user_id" json:"user_id"`
	OrganizationID       string                    `bson:"organization_id" json:"organization_id"`
	OrganizationType     string                    `bson:"organization_type" json:"organization_type"`
	CurrentStep          int                       `bson:"current_step" json:"current_step"`
	CompletedSteps       []int                     `bson:"completed_steps,omitempty" json:"completed_steps,omitempty"`
	StepData             map[string]map[string]any `bson:"step_data,omitempty" json:"step_data,omitempty"`
	TemporaryPermissions []string                  `bson:"temporary_permissions,omitempty" json:"temporary_permissions,omitempty"`
	AssignedRoles        []string                  `bson:"assigned_roles,omitempty" json:"assigned_roles,omitempty"`
	IsComplete           bool                      `bson:"is_complete" json:"is_complete"`
	StartedAt            time.Time                 `bson:"started_at" json:"started_at"`
	UpdatedAt            time.Time                 `bson:"updated_at" json:"updated_at"`
	CompletedAt          *time.Time                `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// HasCompleted reports whether the step number is already recorded.
func (j Journey) HasCompleted(step int) bool {
	return slices.Contains(j.CompletedSteps, step)
}

// stepKey is the StepData map key for a step number.
func stepKey(step int) string {
	return fmt.Sprintf("step_%d", step)
}
