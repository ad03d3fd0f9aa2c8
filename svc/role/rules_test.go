package role_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcflow/accesskit/svc/role"
)

func TestDefaultRules(t *testing.T) {
	t.Parallel()

	rules := role.DefaultRules()

	t.Run("super admin carries the wildcard", func(t *testing.T) {
		t.Parallel()
		rule, ok := rules.ForRole("platform_super_admin")
		require.True(t, ok)
		assert.True(t, rule.AllowsAnyAssignment())
		assert.True(t, rule.AllowsAssignment("anything_at_all"))
		assert.Nil(t, rule.MaxUsersManageable)
	})

	t.Run("bank admin assigns bank staff but not platform roles", func(t *testing.T) {
		t.Parallel()
		rule, ok := rules.ForRole("bank_admin")
		require.True(t, ok)
		assert.True(t, rule.AllowsAssignment("bank_officer"))
		assert.False(t, rule.AllowsAssignment("platform_super_admin"))
		require.NotNil(t, rule.MaxUsersManageable)
		assert.Equal(t, 50, *rule.MaxUsersManageable)
	})

	t.Run("viewer roles have no rule", func(t *testing.T) {
		t.Parallel()
		_, ok := rules.ForRole("organization_viewer")
		assert.False(t, ok)
	})
}

func TestParseRules(t *testing.T) {
	t.Parallel()

	t.Run("override replaces the default rule", func(t *testing.T) {
		t.Parallel()

		doc := `
rules:
  - source_role: organization_manager
    can_assign_roles: [organization_user]
    can_manage_users: true
    max_users_manageable: 5
  - source_role: lc_desk_supervisor
    can_assign_roles: [organization_viewer]
`
		rules, err := role.ParseRules(strings.NewReader(doc))
		require.NoError(t, err)

		manager, ok := rules.ForRole("organization_manager")
		require.True(t, ok)
		assert.False(t, manager.AllowsAssignment("organization_viewer"))
		require.NotNil(t, manager.MaxUsersManageable)
		assert.Equal(t, 5, *manager.MaxUsersManageable)

		custom, ok := rules.ForRole("lc_desk_supervisor")
		require.True(t, ok)
		assert.True(t, custom.AllowsAssignment("organization_viewer"))

		// Untouched defaults survive the merge.
		_, ok = rules.ForRole("platform_super_admin")
		assert.True(t, ok)
	})

	t.Run("rejects rule without source role", func(t *testing.T) {
		t.Parallel()

		_, err := role.ParseRules(strings.NewReader("rules:\n  - can_manage_users: true\n"))
		assert.ErrorIs(t, err, role.ErrInvalidRules)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := role.ParseRules(strings.NewReader("rules: ["))
		assert.ErrorIs(t, err, role.ErrInvalidRules)
	})
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		t.Parallel()

		rules, err := role.LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		_, ok := rules.ForRole("platform_super_admin")
		assert.True(t, ok)
	})
}
