package role_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcflow/accesskit/pkg/audit"
	"github.com/lcflow/accesskit/svc/role"
)

func newService(t *testing.T, opts ...role.Option) *role.Service {
	t.Helper()
	return role.NewService(role.NewMemoryStorage(), opts...)
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("round trips through lookup by name", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		created, err := svc.Create(context.Background(), role.Role{
			Name:           "lc_desk_supervisor",
			DisplayName:    "LC Desk Supervisor",
			Level:          role.LevelEntitySpecific,
			Category:       role.CategorySpecialist,
			OrganizationID: "org-1",
			Permissions:    []string{"lc:view", "lc:approve"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.IsActive)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := svc.ByName(context.Background(), "lc_desk_supervisor", "org-1")
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("rejects duplicate name in same scope", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		def := role.Role{
			Name:           "organization_admin",
			DisplayName:    "Organization Administrator",
			Level:          role.LevelOrganizationAdmin,
			Category:       role.CategoryAdmin,
			OrganizationID: "org-1",
		}
		_, err := svc.Create(context.Background(), def)
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), def)
		assert.ErrorIs(t, err, role.ErrDuplicateRole)
	})

	t.Run("same name in different scopes coexists", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		_, err := svc.Create(context.Background(), role.Role{
			Name:        "auditor",
			DisplayName: "Platform Auditor",
			Level:       role.LevelPlatform,
			Category:    role.CategorySpecialist,
		})
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), role.Role{
			Name:           "auditor",
			DisplayName:    "Organization Auditor",
			Level:          role.LevelOrganizationStandard,
			Category:       role.CategorySpecialist,
			OrganizationID: "org-1",
		})
		require.NoError(t, err)

		platform, err := svc.ByName(context.Background(), "auditor", "")
		require.NoError(t, err)
		assert.Empty(t, platform.OrganizationID)

		scoped, err := svc.ByName(context.Background(), "auditor", "org-1")
		require.NoError(t, err)
		assert.Equal(t, "org-1", scoped.OrganizationID)
	})

	t.Run("registers child on parent role", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		parent, err := svc.Create(context.Background(), role.Role{
			Name:           "bank_admin",
			DisplayName:    "Bank Administrator",
			Level:          role.LevelEntitySpecific,
			Category:       role.CategoryAdmin,
			OrganizationID: "org-1",
		})
		require.NoError(t, err)

		child, err := svc.Create(context.Background(), role.Role{
			Name:           "bank_officer",
			DisplayName:    "Bank Officer",
			Level:          role.LevelEntitySpecific,
			Category:       role.CategorySpecialist,
			OrganizationID: "org-1",
			ParentRoleID:   parent.ID,
		})
		require.NoError(t, err)

		reloaded, err := svc.ByID(context.Background(), parent.ID)
		require.NoError(t, err)
		assert.Contains(t, reloaded.ChildRoles, child.ID)
	})

	t.Run("fails when parent role does not exist", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		_, err := svc.Create(context.Background(), role.Role{
			Name:         "orphan",
			DisplayName:  "Orphan",
			Level:        role.LevelOrganizationStandard,
			Category:     role.CategoryUser,
			ParentRoleID: "missing",
		})
		assert.ErrorIs(t, err, role.ErrRoleNotFound)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("applies partial patch", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		created, err := svc.Create(context.Background(), role.Role{
			Name:           "organization_viewer",
			DisplayName:    "Viewer",
			Level:          role.LevelOrganizationStandard,
			Category:       role.CategoryViewer,
			OrganizationID: "org-1",
			Permissions:    []string{"org:view"},
		})
		require.NoError(t, err)

		display := "Organization Viewer"
		perms := []string{"org:view", "report:view"}
		updated, err := svc.Update(context.Background(), created.ID, role.Patch{
			DisplayName: &display,
			Permissions: &perms,
		}, "user-admin")
		require.NoError(t, err)

		assert.Equal(t, "Organization Viewer", updated.DisplayName)
		assert.Equal(t, perms, updated.Permissions)
		assert.Equal(t, created.Name, updated.Name)
		assert.Equal(t, created.Level, updated.Level)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
	})

	t.Run("rejects malformed permissions in patch", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		created, err := svc.Create(context.Background(), role.Role{
			Name:        "tmp",
			DisplayName: "Tmp",
			Level:       role.LevelOrganizationStandard,
			Category:    role.CategoryUser,
		})
		require.NoError(t, err)

		bad := []string{"*:lc:view"}
		_, err = svc.Update(context.Background(), created.ID, role.Patch{Permissions: &bad}, "")
		assert.ErrorIs(t, err, role.ErrInvalidRole)
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		_, err := svc.Update(context.Background(), "missing", role.Patch{}, "")
		assert.ErrorIs(t, err, role.ErrRoleNotFound)
	})
}

type stubCounter struct {
	active int64
}

func (c stubCounter) CountActiveByRole(context.Context, string) (int64, error) {
	return c.active, nil
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("soft deletes", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, role.WithAssignmentCounter(stubCounter{}))

		created, err := svc.Create(context.Background(), role.Role{
			Name:        "seasonal_reviewer",
			DisplayName: "Seasonal Reviewer",
			Level:       role.LevelOrganizationStandard,
			Category:    role.CategoryViewer,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), created.ID, "user-admin"))

		got, err := svc.ByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("protects system roles", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		created, err := svc.Create(context.Background(), role.Role{
			Name:         "platform_super_admin",
			DisplayName:  "Platform Super Administrator",
			Level:        role.LevelPlatform,
			Category:     role.CategorySystem,
			IsSystemRole: true,
		})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), created.ID, "user-admin")
		assert.ErrorIs(t, err, role.ErrSystemRoleProtected)
	})

	t.Run("refuses roles with active assignments", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, role.WithAssignmentCounter(stubCounter{active: 3}))

		created, err := svc.Create(context.Background(), role.Role{
			Name:        "busy_role",
			DisplayName: "Busy Role",
			Level:       role.LevelOrganizationStandard,
			Category:    role.CategoryUser,
		})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), created.ID, "user-admin")
		assert.ErrorIs(t, err, role.ErrRoleInUse)
	})
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *role.Service {
		t.Helper()
		svc := newService(t)
		defs := []role.Role{
			{Name: "platform_admin", DisplayName: "PA", Level: role.LevelPlatform, Category: role.CategoryAdmin, IsSystemRole: true},
			{Name: "organization_admin", DisplayName: "OA", Level: role.LevelOrganizationAdmin, Category: role.CategoryAdmin, OrganizationID: "org-1"},
			{Name: "organization_user", DisplayName: "OU", Level: role.LevelOrganizationStandard, Category: role.CategoryUser, OrganizationID: "org-1"},
			{Name: "organization_user", DisplayName: "OU2", Level: role.LevelOrganizationStandard, Category: role.CategoryUser, OrganizationID: "org-2"},
		}
		for _, d := range defs {
			_, err := svc.Create(context.Background(), d)
			require.NoError(t, err)
		}
		return svc
	}

	t.Run("scopes to organization", func(t *testing.T) {
		t.Parallel()
		roles, err := seed(t).List(context.Background(), role.Filter{OrganizationID: "org-1", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, roles, 2)
		assert.Equal(t, "organization_admin", roles[0].Name)
		assert.Equal(t, "organization_user", roles[1].Name)
	})

	t.Run("includes platform roles on request", func(t *testing.T) {
		t.Parallel()
		roles, err := seed(t).List(context.Background(), role.Filter{
			OrganizationID: "org-1",
			IncludeSystem:  true,
			ActiveOnly:     true,
		})
		require.NoError(t, err)
		require.Len(t, roles, 3)
	})

	t.Run("filters by level", func(t *testing.T) {
		t.Parallel()
		roles, err := seed(t).List(context.Background(), role.Filter{
			OrganizationID: "org-1",
			Level:          role.LevelOrganizationStandard,
			ActiveOnly:     true,
		})
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, "organization_user", roles[0].Name)
	})

	t.Run("platform roles helper", func(t *testing.T) {
		t.Parallel()
		roles, err := seed(t).PlatformRoles(context.Background())
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, "platform_admin", roles[0].Name)
	})
}

func TestServiceBootstrap(t *testing.T) {
	t.Parallel()

	t.Run("seeds platform catalog idempotently", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		require.NoError(t, svc.InitializeDefaultRoles(context.Background()))
		require.NoError(t, svc.InitializeDefaultRoles(context.Background()))

		roles, err := svc.PlatformRoles(context.Background())
		require.NoError(t, err)
		require.Len(t, roles, 3)

		super, err := svc.ByName(context.Background(), "platform_super_admin", "")
		require.NoError(t, err)
		assert.True(t, super.IsSystemRole)
		assert.Equal(t, []string{"*"}, super.Permissions)
	})

	t.Run("seeds bank organization catalog", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		require.NoError(t, svc.InitializeOrganizationRoles(context.Background(), "org-bank", "bank"))

		roles, err := svc.List(context.Background(), role.Filter{OrganizationID: "org-bank", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, roles, 8)

		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, r.Name)
		}
		assert.Contains(t, names, "organization_owner")
		assert.Contains(t, names, "bank_admin")
		assert.Contains(t, names, "bank_compliance_officer")
		assert.NotContains(t, names, "corporate_admin")

		def, err := svc.ByName(context.Background(), "organization_user", "org-bank")
		require.NoError(t, err)
		assert.True(t, def.IsDefault)
	})

	t.Run("corporate catalog differs from bank", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		require.NoError(t, svc.InitializeOrganizationRoles(context.Background(), "org-corp", "corporate"))

		_, err := svc.ByName(context.Background(), "corporate_trade_manager", "org-corp")
		require.NoError(t, err)

		_, err = svc.ByName(context.Background(), "bank_officer", "org-corp")
		assert.ErrorIs(t, err, role.ErrRoleNotFound)
	})

	t.Run("unknown entity type seeds base catalog only", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		require.NoError(t, svc.InitializeOrganizationRoles(context.Background(), "org-x", "fintech"))

		roles, err := svc.List(context.Background(), role.Filter{OrganizationID: "org-x", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, roles, 5)
	})
}

func TestServiceAuditEvents(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	svc := newService(t, role.WithAuditRecorder(audit.NewRecorder(storage)))

	created, err := svc.Create(context.Background(), role.Role{
		Name:        "audited_role",
		DisplayName: "Audited Role",
		Level:       role.LevelOrganizationStandard,
		Category:    role.CategoryUser,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), created.ID, "user-admin"))

	events, err := storage.Query(context.Background(), audit.Criteria{Resource: "role"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "role.delete", events[0].Action)
	assert.Equal(t, "user-admin", events[0].ActorID)
	assert.Equal(t, "role.create", events[1].Action)
}
