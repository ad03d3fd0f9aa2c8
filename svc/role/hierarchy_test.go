package role_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcflow/accesskit/svc/role"
)

func catalogForHierarchy() []role.Role {
	return []role.Role{
		{ID: "r-super", Name: "platform_super_admin", Level: role.LevelPlatform},
		{ID: "r-padmin", Name: "platform_admin", Level: role.LevelPlatform},
		{ID: "r-owner", Name: "organization_owner", Level: role.LevelOrganizationSuper},
		{ID: "r-admin", Name: "organization_admin", Level: role.LevelOrganizationAdmin},
		{ID: "r-manager", Name: "organization_manager", Level: role.LevelOrganizationStandard},
		{ID: "r-user", Name: "organization_user", Level: role.LevelOrganizationStandard, IsDefault: true},
		{ID: "r-bank-admin", Name: "bank_admin", Level: role.LevelEntitySpecific},
		{ID: "r-bank-officer", Name: "bank_officer", Level: role.LevelEntitySpecific},
	}
}

func TestBuildHierarchy(t *testing.T) {
	t.Parallel()

	t.Run("orders by level then name deterministically", func(t *testing.T) {
		t.Parallel()

		roots := role.BuildHierarchy(catalogForHierarchy(), role.DefaultRules())
		require.Len(t, roots, 2)

		// platform_admin sorts before platform_super_admin, so it adopts the
		// entire lower structure; the super admin remains a bare root.
		assert.Equal(t, "platform_admin", roots[0].RoleName)
		assert.Equal(t, "platform_super_admin", roots[1].RoleName)
		assert.Empty(t, roots[1].Children)

		require.Len(t, roots[0].Children, 1)
		owner := roots[0].Children[0]
		assert.Equal(t, "organization_owner", owner.RoleName)

		require.Len(t, owner.Children, 1)
		admin := owner.Children[0]
		assert.Equal(t, "organization_admin", admin.RoleName)

		// organization_manager (first by name at its tier) adopts the entity
		// tier; organization_user ends up its sibling.
		require.Len(t, admin.Children, 2)
		assert.Equal(t, "organization_manager", admin.Children[0].RoleName)
		assert.Equal(t, "organization_user", admin.Children[1].RoleName)

		manager := admin.Children[0]
		require.Len(t, manager.Children, 2)
		assert.Equal(t, "bank_admin", manager.Children[0].RoleName)
		assert.Equal(t, "bank_officer", manager.Children[1].RoleName)
	})

	t.Run("child levels are strictly below parents", func(t *testing.T) {
		t.Parallel()

		var check func(t *testing.T, n *role.Node)
		check = func(t *testing.T, n *role.Node) {
			for _, child := range n.Children {
				assert.Greater(t, child.Level, n.Level)
				check(t, child)
			}
		}
		for _, root := range role.BuildHierarchy(catalogForHierarchy(), role.DefaultRules()) {
			check(t, root)
		}
	})

	t.Run("wildcard rule grants every role id", func(t *testing.T) {
		t.Parallel()

		roots := role.BuildHierarchy(catalogForHierarchy(), role.DefaultRules())
		super := roots[1]
		require.Equal(t, "platform_super_admin", super.RoleName)

		assert.Len(t, super.CanAssign, len(catalogForHierarchy()))
		assert.Contains(t, super.CanAssign, "r-super")
		assert.Contains(t, super.CanAssign, "r-bank-officer")
		assert.Equal(t, super.CanAssign, super.CanManage)
	})

	t.Run("named rule resolves only present roles", func(t *testing.T) {
		t.Parallel()

		var find func(nodes []*role.Node, name string) *role.Node
		find = func(nodes []*role.Node, name string) *role.Node {
			for _, n := range nodes {
				if n.RoleName == name {
					return n
				}
				if found := find(n.Children, name); found != nil {
					return found
				}
			}
			return nil
		}

		roots := role.BuildHierarchy(catalogForHierarchy(), role.DefaultRules())
		bankAdmin := find(roots, "bank_admin")
		require.NotNil(t, bankAdmin)

		// The rule also names bank_compliance_officer and organization_viewer,
		// which are absent from this catalog.
		assert.ElementsMatch(t, []string{"r-bank-officer", "r-user"}, bankAdmin.CanAssign)
	})

	t.Run("role without rule assigns nothing", func(t *testing.T) {
		t.Parallel()

		roots := role.BuildHierarchy([]role.Role{
			{ID: "r-viewer", Name: "organization_viewer", Level: role.LevelOrganizationStandard},
		}, role.DefaultRules())
		require.Len(t, roots, 1)
		assert.Empty(t, roots[0].CanAssign)
		assert.Empty(t, roots[0].CanManage)
	})
}

func TestOrganizationHierarchy(t *testing.T) {
	t.Parallel()

	t.Run("builds and persists snapshot on first access", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		require.NoError(t, svc.InitializeDefaultRoles(context.Background()))
		require.NoError(t, svc.InitializeOrganizationRoles(context.Background(), "org-1", "bank"))

		h, err := svc.OrganizationHierarchy(context.Background(), "org-1")
		require.NoError(t, err)
		assert.Equal(t, "org-1", h.OrganizationID)
		assert.NotEmpty(t, h.Nodes)
		assert.Len(t, h.AllowedRoles, 11) // 3 platform + 5 base + 3 bank
		assert.Len(t, h.DefaultRoles, 1)
		assert.False(t, h.GeneratedAt.IsZero())

		again, err := svc.OrganizationHierarchy(context.Background(), "org-1")
		require.NoError(t, err)
		assert.Equal(t, h.GeneratedAt, again.GeneratedAt)
	})

	t.Run("rebuild replaces the snapshot", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		require.NoError(t, svc.InitializeOrganizationRoles(context.Background(), "org-2", "corporate"))

		first, err := svc.OrganizationHierarchy(context.Background(), "org-2")
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), role.Role{
			Name:           "corporate_auditor",
			DisplayName:    "Corporate Auditor",
			Level:          role.LevelEntitySpecific,
			Category:       role.CategorySpecialist,
			OrganizationID: "org-2",
		})
		require.NoError(t, err)

		rebuilt, err := svc.CreateOrganizationHierarchy(context.Background(), "org-2")
		require.NoError(t, err)
		assert.Len(t, rebuilt.AllowedRoles, len(first.AllowedRoles)+1)

		cached, err := svc.OrganizationHierarchy(context.Background(), "org-2")
		require.NoError(t, err)
		assert.Equal(t, rebuilt.GeneratedAt, cached.GeneratedAt)
	})
}
