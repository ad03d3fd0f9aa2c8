package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lcflow/accesskit/pkg/logger"
	"github.com/lcflow/accesskit/pkg/permission"
)

// EntityTypeBank and EntityTypeCorporate are the organization kinds the
// platform onboards: issuing/advising banks and corporate trade parties.
const (
	EntityTypeBank      = "bank"
	EntityTypeCorporate = "corporate"
)

// InitializeDefaultRoles seeds the platform role catalog. Roles that already
// exist by name are skipped, so re-running is safe.
func (s *Service) InitializeDefaultRoles(ctx context.Context) error {
	created, err := s.seed(ctx, platformCatalog())
	if err != nil {
		return fmt.Errorf("initialize default roles: %w", err)
	}
	if created > 0 {
		s.log.InfoContext(ctx, "platform roles initialized", slog.Int("created", created))
	}
	return nil
}

// InitializeOrganizationRoles seeds the base organization catalog plus the
// entity-type templates for the given organization. Idempotent by name.
func (s *Service) InitializeOrganizationRoles(ctx context.Context, organizationID, entityType string) error {
	catalog := organizationCatalog(organizationID)
	catalog = append(catalog, entityCatalog(organizationID, entityType)...)

	created, err := s.seed(ctx, catalog)
	if err != nil {
		return fmt.Errorf("initialize organization roles: %w", err)
	}
	if created > 0 {
		s.log.InfoContext(ctx, "organization roles initialized",
			logger.OrganizationID(organizationID),
			slog.String("entity_type", entityType),
			slog.Int("created", created))
	}
	return nil
}

func (s *Service) seed(ctx context.Context, catalog []Role) (int, error) {
	created := 0
	for _, r := range catalog {
		_, err := s.storage.FindByName(ctx, r.Name, r.OrganizationID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrRoleNotFound) {
			return created, err
		}

		if _, err := s.Create(ctx, r); err != nil {
			// A concurrent bootstrap may have won the insert.
			if errors.Is(err, ErrDuplicateRole) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

func platformCatalog() []Role {
	return []Role{
		{
			Name:         "platform_super_admin",
			DisplayName:  "Platform Super Administrator",
			Description:  "Unrestricted access to every platform and tenant resource.",
			Level:        LevelPlatform,
			Category:     CategorySystem,
			IsSystemRole: true,
			Permissions:  permission.Strings(permission.Wildcard),
		},
		{
			Name:         "platform_admin",
			DisplayName:  "Platform Administrator",
			Description:  "Manages organizations, users, and role catalogs across the platform.",
			Level:        LevelPlatform,
			Category:     CategoryAdmin,
			IsSystemRole: true,
			Permissions: permission.Strings(
				permission.PlatformManage,
				permission.PlatformOrgManage,
				permission.PlatformUserManage,
				permission.PlatformRoleManage,
				permission.PlatformAuditView,
				permission.OrgView,
				permission.ReportView,
			),
		},
		{
			Name:         "platform_support",
			DisplayName:  "Platform Support",
			Description:  "Read access for support staff resolving tenant issues.",
			Level:        LevelPlatform,
			Category:     CategorySpecialist,
			IsSystemRole: true,
			Permissions: permission.Strings(
				permission.PlatformSupport,
				permission.PlatformAuditView,
				permission.OrgView,
			),
		},
	}
}

func organizationCatalog(organizationID string) []Role {
	return []Role{
		{
			Name:           "organization_owner",
			DisplayName:    "Organization Owner",
			Description:    "Full control of the organization, its roles, and its members.",
			Level:          LevelOrganizationSuper,
			Category:       CategoryAdmin,
			OrganizationID: organizationID,
			IsSystemRole:   true,
			Permissions: permission.Strings(
				"org:*", "lc:*",
				permission.DocView, permission.DocUpload,
				permission.ReportView, permission.ReportExport,
			),
		},
		{
			Name:           "organization_admin",
			DisplayName:    "Organization Administrator",
			Description:    "Manages members, roles, and settings of the organization.",
			Level:          LevelOrganizationAdmin,
			Category:       CategoryAdmin,
			OrganizationID: organizationID,
			Permissions: permission.Strings(
				permission.OrgView, permission.OrgEdit,
				permission.OrgRoleManage, permission.OrgUserManage,
				permission.OrgSettingsManage, permission.OrgAuditView,
				permission.LCView, permission.LCCreate, permission.LCEdit,
				permission.ReportView, permission.ReportExport,
			),
		},
		{
			Name:           "organization_manager",
			DisplayName:    "Organization Manager",
			Description:    "Runs the day-to-day trade desk and its users.",
			Level:          LevelOrganizationStandard,
			Category:       CategoryManager,
			OrganizationID: organizationID,
			Permissions: permission.Strings(
				permission.OrgView, permission.OrgUserManage,
				permission.LCView, permission.LCCreate, permission.LCEdit, permission.LCSubmit,
				permission.DocView, permission.DocUpload,
				permission.ReportView,
			),
		},
		{
			Name:           "organization_user",
			DisplayName:    "Organization User",
			Description:    "Prepares letters of credit and uploads trade documents.",
			Level:          LevelOrganizationStandard,
			Category:       CategoryUser,
			OrganizationID: organizationID,
			IsDefault:      true,
			Permissions: permission.Strings(
				permission.OrgView,
				permission.ProfileView, permission.ProfileEdit,
				permission.LCView, permission.LCCreate,
				permission.DocView, permission.DocUpload,
			),
		},
		{
			Name:           "organization_viewer",
			DisplayName:    "Organization Viewer",
			Description:    "Read-only visibility into the organization's trade activity.",
			Level:          LevelOrganizationStandard,
			Category:       CategoryViewer,
			OrganizationID: organizationID,
			Permissions: permission.Strings(
				permission.OrgView,
				permission.LCView, permission.DocView,
				permission.ReportView,
			),
		},
	}
}

func entityCatalog(organizationID, entityType string) []Role {
	switch entityType {
	case EntityTypeBank:
		return []Role{
			{
				Name:           "bank_admin",
				DisplayName:    "Bank Administrator",
				Description:    "Heads the bank's LC operations and staff.",
				Level:          LevelEntitySpecific,
				Category:       CategoryAdmin,
				OrganizationID: organizationID,
				EntityType:     EntityTypeBank,
				Permissions: permission.Strings(
					permission.OrgView, permission.OrgUserManage,
					permission.LCView, permission.LCApprove, permission.LCAmend, permission.LCRelease,
					permission.DocView, permission.DocVerify,
					permission.ComplianceView,
					permission.ReportView, permission.ReportExport,
				),
			},
			{
				Name:           "bank_officer",
				DisplayName:    "Bank Officer",
				Description:    "Examines documents and processes LC lifecycle events.",
				Level:          LevelEntitySpecific,
				Category:       CategorySpecialist,
				OrganizationID: organizationID,
				EntityType:     EntityTypeBank,
				Permissions: permission.Strings(
					permission.OrgView,
					permission.LCView, permission.LCApprove, permission.LCAmend,
					permission.DocView, permission.DocVerify,
					permission.ReportView,
				),
			},
			{
				Name:           "bank_compliance_officer",
				DisplayName:    "Bank Compliance Officer",
				Description:    "Screens parties and transactions for compliance.",
				Level:          LevelEntitySpecific,
				Category:       CategorySpecialist,
				OrganizationID: organizationID,
				EntityType:     EntityTypeBank,
				Permissions: permission.Strings(
					permission.OrgView,
					permission.LCView,
					permission.ComplianceView, permission.ComplianceReview,
					permission.DocView,
					permission.ReportView,
				),
			},
		}
	case EntityTypeCorporate:
		return []Role{
			{
				Name:           "corporate_admin",
				DisplayName:    "Corporate Administrator",
				Description:    "Heads the corporate's trade finance function.",
				Level:          LevelEntitySpecific,
				Category:       CategoryAdmin,
				OrganizationID: organizationID,
				EntityType:     EntityTypeCorporate,
				Permissions: permission.Strings(
					permission.OrgView, permission.OrgUserManage,
					permission.LCView, permission.LCCreate, permission.LCEdit,
					permission.LCSubmit, permission.LCAmend,
					permission.DocView, permission.DocUpload,
					permission.ReportView, permission.ReportExport,
				),
			},
			{
				Name:           "corporate_trade_manager",
				DisplayName:    "Corporate Trade Manager",
				Description:    "Prepares and submits letters of credit for the corporate.",
				Level:          LevelEntitySpecific,
				Category:       CategoryManager,
				OrganizationID: organizationID,
				EntityType:     EntityTypeCorporate,
				Permissions: permission.Strings(
					permission.OrgView,
					permission.LCView, permission.LCCreate, permission.LCEdit, permission.LCSubmit,
					permission.DocView, permission.DocUpload,
					permission.ReportView,
				),
			},
			{
				Name:           "corporate_viewer",
				DisplayName:    "Corporate Viewer",
				Description:    "Read-only visibility into the corporate's LC portfolio.",
				Level:          LevelEntitySpecific,
				Category:       CategoryViewer,
				OrganizationID: organizationID,
				EntityType:     EntityTypeCorporate,
				Permissions: permission.Strings(
					permission.OrgView,
					permission.LCView, permission.DocView,
					permission.ReportView,
				),
			},
		}
	}
	return nil
}
