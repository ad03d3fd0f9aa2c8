package onboarding

import (
	"strings"

	"github.com/lcflow/accesskit/pkg/validator"
)

// Validation rules a step payload field can carry. RuleCustom is an
// extension point and currently accepts any present value.
const (
	RuleRequired = "required"
	RuleEmail    = "email"
	RulePhone    = "phone"
	RuleCustom   = "custom"
)

// Validation is one format rule applied to a payload field. Rules other
// than "required" only run when the field is present, so optional fields
// are format-checked without being mandatory.
type Validation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// StepDefinition is the static configuration of one journey step.
// Permissions lists what the step unlocks while the journey is in flight;
// RoleAssignments lists the fallback roles the final step grants when the
// organization-role heuristic has nothing better to go on.
type StepDefinition struct {
	Step            int          `json:"step"`
	Name            string       `json:"name"`
	Title           string       `json:"title"`
	RequiredFields  []string     `json:"required_fields,omitempty"`
	OptionalFields  []string     `json:"optional_fields,omitempty"`
	Validations     []Validation `json:"validations,omitempty"`
	NextSteps       []int        `json:"next_steps,omitempty"`
	Permissions     []string     `json:"permissions,omitempty"`
	RoleAssignments []string     `json:"role_assignments,omitempty"`
}

// Steps returns the journey's step catalog in order. The catalog is fixed;
// callers get a fresh slice they may reorder or filter freely.
func Steps() []StepDefinition {
	return []StepDefinition{
		{
			Step:           1,
			Name:           "organization_setup",
			Title:          "Organization Setup",
			RequiredFields: []string{"organizationName", "organizationRole"},
			OptionalFields: []string{"department", "jobTitle"},
			Validations: []Validation{
				{Field: "organizationName", Rule: RuleRequired},
				{Field: "organizationRole", Rule: RuleRequired},
			},
			NextSteps:   []int{2},
			Permissions: []string{"org:view"},
		},
		{
			Step:           2,
			Name:           "profile_completion",
			Title:          "Complete Your Profile",
			RequiredFields: []string{"firstName", "lastName", "email"},
			OptionalFields: []string{"phone", "preferredName"},
			Validations: []Validation{
				{Field: "email", Rule: RuleEmail},
				{Field: "phone", Rule: RulePhone},
			},
			NextSteps:   []int{3},
			Permissions: []string{"profile:view", "profile:edit"},
		},
		{
			Step:           3,
			Name:           "security_setup",
			Title:          "Secure Your Account",
			RequiredFields: []string{"twoFactorMethod"},
			OptionalFields: []string{"recoveryEmail"},
			Validations: []Validation{
				{Field: "twoFactorMethod", Rule: RuleRequired},
				{Field: "recoveryEmail", Rule: RuleEmail},
			},
			NextSteps: []int{4},
		},
		{
			Step:           4,
			Name:           "preferences_setup",
			Title:          "Set Your Preferences",
			RequiredFields: []string{"language", "timezone"},
			OptionalFields: []string{"emailNotifications"},
			Validations: []Validation{
				{Field: "language", Rule: RuleRequired},
				{Field: "timezone", Rule: RuleRequired},
			},
			NextSteps: []int{5},
		},
		{
			Step:           5,
			Name:           "training_completion",
			Title:          "Platform Training",
			RequiredFields: []string{"trainingAcknowledged"},
			OptionalFields: []string{"feedback"},
			Validations: []Validation{
				{Field: "trainingAcknowledged", Rule: RuleCustom},
			},
			RoleAssignments: []string{"organization_user"},
		},
	}
}

// LastStep is the number of the final step in the catalog.
func LastStep() int {
	steps := Steps()
	return steps[len(steps)-1].Step
}

func stepByNumber(n int) (StepDefinition, bool) {
	for _, def := range Steps() {
		if def.Step == n {
			return def, true
		}
	}
	return StepDefinition{}, false
}

// validateStep checks the payload against the step's required fields and
// validations and collects every failure.
func validateStep(def StepDefinition, data map[string]any) validator.ValidationErrors {
	var verrs validator.ValidationErrors

	for _, field := range def.RequiredFields {
		if !present(data, field) {
			verrs.Add(field, "is required")
		}
	}

	for _, v := range def.Validations {
		raw, ok := data[v.Field]
		if !ok {
			continue
		}
		switch v.Rule {
		case RuleRequired:
			if !present(data, v.Field) {
				verrs.Add(v.Field, "cannot be empty")
			}
		case RuleEmail:
			verrs = append(verrs, checkString(v.Field, raw, validator.ValidEmail)...)
		case RulePhone:
			verrs = append(verrs, checkString(v.Field, raw, validator.ValidPhone)...)
		case RuleCustom:
			// Accepted as-is; hook for platform-specific checks.
		}
	}
	return verrs
}

func checkString(field string, raw any, rule func(string, string) validator.Rule) validator.ValidationErrors {
	s, ok := raw.(string)
	if !ok {
		return validator.ValidationErrors{{Field: field, Message: "must be a string"}}
	}
	if err := validator.Apply(rule(field, s)); err != nil {
		return validator.ExtractValidationErrors(err)
	}
	return nil
}

// present reports whether the field carries a usable value: any non-nil
// value counts, except blank strings.
func present(data map[string]any, field string) bool {
	v, ok := data[field]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}
