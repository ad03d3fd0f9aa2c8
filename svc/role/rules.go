package role

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Rule states what a holder of SourceRole may do with other roles and users.
// CanAssignRoles lists assignable role names; the single entry "*" means any
// role. MaxUsersManageable nil means unlimited. RequiresApproval and
// ApproverRoles are informational for the platform's approval UI; this core
// does not run an approval workflow.
type Rule struct {
	SourceRole         string   `yaml:"source_role"`
	CanAssignRoles     []string `yaml:"can_assign_roles"`
	CanManageUsers     bool     `yaml:"can_manage_users"`
	MaxUsersManageable *int     `yaml:"max_users_manageable"`
	RequiresApproval   bool     `yaml:"requires_approval"`
	ApproverRoles      []string `yaml:"approver_roles"`
}

// AllowsAnyAssignment reports whether the rule carries the wildcard.
func (r Rule) AllowsAnyAssignment() bool {
	return slices.Contains(r.CanAssignRoles, "*")
}

// AllowsAssignment reports whether the rule permits assigning the named role.
func (r Rule) AllowsAssignment(roleName string) bool {
	return r.AllowsAnyAssignment() || slices.Contains(r.CanAssignRoles, roleName)
}

// RuleSet is the assignment rule table keyed by source role name. It is
// built once at startup and never mutated afterwards.
type RuleSet map[string]Rule

// ForRole returns the rule for a role name.
func (rs RuleSet) ForRole(name string) (Rule, bool) {
	r, ok := rs[name]
	return r, ok
}

func intPtr(n int) *int { return &n }

// DefaultRules returns the built-in assignment rule table covering the
// bootstrap catalogs. Roles without a rule cannot assign anything.
func DefaultRules() RuleSet {
	rules := []Rule{
		{
			SourceRole:     "platform_super_admin",
			CanAssignRoles: []string{"*"},
			CanManageUsers: true,
		},
		{
			SourceRole: "platform_admin",
			CanAssignRoles: []string{
				"platform_support",
				"organization_owner", "organization_admin", "organization_manager",
				"organization_user", "organization_viewer",
				"bank_admin", "bank_officer", "bank_compliance_officer",
				"corporate_admin", "corporate_trade_manager", "corporate_viewer",
			},
			CanManageUsers: true,
		},
		{
			SourceRole: "organization_owner",
			CanAssignRoles: []string{
				"organization_admin", "organization_manager",
				"organization_user", "organization_viewer",
				"bank_admin", "bank_officer", "bank_compliance_officer",
				"corporate_admin", "corporate_trade_manager", "corporate_viewer",
			},
			CanManageUsers: true,
		},
		{
			SourceRole: "organization_admin",
			CanAssignRoles: []string{
				"organization_manager", "organization_user", "organization_viewer",
				"bank_officer", "bank_compliance_officer",
				"corporate_trade_manager", "corporate_viewer",
			},
			CanManageUsers:     true,
			MaxUsersManageable: intPtr(100),
		},
		{
			SourceRole:         "organization_manager",
			CanAssignRoles:     []string{"organization_user", "organization_viewer"},
			CanManageUsers:     true,
			MaxUsersManageable: intPtr(25),
		},
		{
			SourceRole: "bank_admin",
			CanAssignRoles: []string{
				"bank_officer", "bank_compliance_officer",
				"organization_user", "organization_viewer",
			},
			CanManageUsers:     true,
			MaxUsersManageable: intPtr(50),
		},
		{
			SourceRole:       "bank_compliance_officer",
			CanAssignRoles:   nil,
			RequiresApproval: true,
			ApproverRoles:    []string{"bank_admin"},
		},
		{
			SourceRole: "corporate_admin",
			CanAssignRoles: []string{
				"corporate_trade_manager", "corporate_viewer",
				"organization_user", "organization_viewer",
			},
			CanManageUsers:     true,
			MaxUsersManageable: intPtr(50),
		},
	}

	rs := make(RuleSet, len(rules))
	for _, r := range rules {
		rs[r.SourceRole] = r
	}
	return rs
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseRules reads a YAML rule document and merges it over the defaults.
// An override replaces the whole rule for its source role.
func ParseRules(r io.Reader) (RuleSet, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidRules, err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrInvalidRules, err)
	}

	rs := DefaultRules()
	for _, rule := range file.Rules {
		if rule.SourceRole == "" {
			return nil, fmt.Errorf("%w: rule without source_role", ErrInvalidRules)
		}
		rs[rule.SourceRole] = rule
	}
	return rs, nil
}

// LoadRules reads an optional override file. A missing file yields the
// built-in defaults.
func LoadRules(path string) (RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultRules(), nil
		}
		return nil, errors.Join(ErrInvalidRules, err)
	}
	defer f.Close()
	return ParseRules(f)
}
