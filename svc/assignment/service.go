package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lcflow/accesskit/pkg/audit"
	"github.com/lcflow/accesskit/pkg/logger"
	"github.com/lcflow/accesskit/pkg/permission"
	"github.com/lcflow/accesskit/svc/role"
)

// RoleReader is the slice of the role catalog this service needs.
// *role.Service satisfies it.
type RoleReader interface {
	ByID(ctx context.Context, id string) (role.Role, error)
	ByName(ctx context.Context, name, organizationID string) (role.Role, error)
}

// Service is the assignment ledger and its gatekeeper: it authorizes grant
// and revoke requests against the rule table, owns the active binding set,
// and aggregates effective permissions.
type Service struct {
	storage Storage
	roles   RoleReader
	rules   role.RuleSet
	log     *slog.Logger
	audit   audit.Recorder
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithAuditRecorder wires the audit trail. Defaults to a no-op recorder.
func WithAuditRecorder(rec audit.Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.audit = rec
		}
	}
}

// WithRules replaces the built-in assignment rule table. Pass the same set
// the role catalog uses so hierarchy views and authorization agree.
func WithRules(rs role.RuleSet) Option {
	return func(s *Service) {
		if rs != nil {
			s.rules = rs
		}
	}
}

// NewService creates the assignment service.
func NewService(storage Storage, roles RoleReader, opts ...Option) *Service {
	if storage == nil {
		panic("assignment: storage cannot be nil")
	}
	if roles == nil {
		panic("assignment: role reader cannot be nil")
	}
	s := &Service{
		storage: storage,
		roles:   roles,
		rules:   role.DefaultRules(),
		log:     slog.New(slog.DiscardHandler),
		audit:   audit.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanUserAssignRole reports whether the actor may assign the target role
// within the organization. The actor's active bindings in the organization,
// including platform-wide ones, are resolved to their rules; any rule
// allowing the target role's name (or carrying the wildcard) grants the
// right.
func (s *Service) CanUserAssignRole(ctx context.Context, actorID, targetRoleID, organizationID string) (bool, error) {
	target, err := s.roles.ByID(ctx, targetRoleID)
	if err != nil {
		return false, err
	}

	actorRoles, err := s.heldRoles(ctx, actorID, organizationID)
	if err != nil {
		return false, err
	}
	for _, held := range actorRoles {
		if rule, ok := s.rules.ForRole(held.Name); ok && rule.AllowsAssignment(target.Name) {
			return true, nil
		}
	}
	return false, nil
}

// Assign grants a role after checking the target role, organization
// consistency, duplicates, and the actor's authority. The storage constraint
// is the final word on duplicates; the pre-check only fails fast.
func (s *Service) Assign(ctx context.Context, req Request, actorID string) (Assignment, error) {
	now := time.Now().UTC()

	target, err := s.prepare(ctx, &req, now)
	if err != nil {
		return Assignment{}, err
	}

	allowed, err := s.CanUserAssignRole(ctx, actorID, req.RoleID, req.OrganizationID)
	if err != nil {
		return Assignment{}, err
	}
	if !allowed {
		return Assignment{}, ErrInsufficientPermission
	}

	if err := s.checkManagedCap(ctx, actorID, target.Name, req.OrganizationID, now); err != nil {
		return Assignment{}, err
	}

	a, err := s.insert(ctx, req, actorID, now)
	if err != nil {
		return Assignment{}, err
	}

	s.recordAudit(ctx, "assignment.create", a,
		audit.WithActor(actorID),
		audit.WithMetadata("role_name", target.Name))

	s.log.InfoContext(ctx, "role assigned",
		logger.UserID(a.UserID), logger.Role(target.Name),
		logger.OrganizationID(a.OrganizationID), logger.ActorID(actorID))
	return a, nil
}

// Grant inserts a binding without the authority gate. It is the trust path
// for bootstrap and for the onboarding engine's final role grant; every data
// integrity check still applies.
func (s *Service) Grant(ctx context.Context, req Request, grantedBy string) (Assignment, error) {
	now := time.Now().UTC()

	target, err := s.prepare(ctx, &req, now)
	if err != nil {
		return Assignment{}, err
	}

	a, err := s.insert(ctx, req, grantedBy, now)
	if err != nil {
		return Assignment{}, err
	}

	s.recordAudit(ctx, "assignment.grant", a,
		audit.WithActor(grantedBy),
		audit.WithMetadata("role_name", target.Name))
	return a, nil
}

// Revoke deactivates the active binding for the triple. The actor needs the
// same authority as for assigning the role.
func (s *Service) Revoke(ctx context.Context, userID, roleID, organizationID, actorID string) error {
	allowed, err := s.CanUserAssignRole(ctx, actorID, roleID, organizationID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrInsufficientPermission
	}

	now := time.Now().UTC()
	a, err := s.storage.Find(ctx, userID, roleID, organizationID)
	if err != nil {
		return err
	}
	if !a.ActiveAt(now) {
		return ErrAssignmentNotFound
	}

	a.IsActive = false
	a.RevokedAt = &now
	a.RevokedBy = actorID
	if err := s.storage.Update(ctx, a); err != nil {
		return err
	}

	s.recordAudit(ctx, "assignment.revoke", a, audit.WithActor(actorID))

	s.log.InfoContext(ctx, "role revoked",
		logger.UserID(userID), logger.RoleID(roleID),
		logger.OrganizationID(organizationID), logger.ActorID(actorID))
	return nil
}

// UserRoles returns the user's active, unexpired bindings. With an
// organization id, platform-wide bindings are included alongside that
// organization's; with an empty id, all bindings are returned.
func (s *Service) UserRoles(ctx context.Context, userID, organizationID string) ([]Assignment, error) {
	all, err := s.storage.ListActiveByUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if organizationID == "" {
		return all, nil
	}

	out := all[:0]
	for _, a := range all {
		if a.VisibleIn(organizationID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// UserPermissions returns the union of permissions over the role definitions
// behind the user's active bindings. Deactivated role definitions contribute
// nothing.
func (s *Service) UserPermissions(ctx context.Context, userID, organizationID string) ([]string, error) {
	bindings, err := s.UserRoles(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}

	sets := make([][]string, 0, len(bindings))
	for _, b := range bindings {
		def, err := s.roles.ByID(ctx, b.RoleID)
		if err != nil {
			if errors.Is(err, role.ErrRoleNotFound) {
				continue
			}
			return nil, err
		}
		if !def.IsActive {
			continue
		}
		sets = append(sets, def.Permissions)
	}
	return permission.Union(sets...), nil
}

// HasPermission is the authorization primitive: membership of the permission
// in the user's effective set, with wildcard grants honored. It reads
// current ledger and catalog state on every call.
func (s *Service) HasPermission(ctx context.Context, userID, perm, organizationID string) (bool, error) {
	perms, err := s.UserPermissions(ctx, userID, organizationID)
	if err != nil {
		return false, err
	}
	return permission.Has(perms, permission.Permission(perm)), nil
}

// CountActiveByRole reports active, unexpired bindings of a role. It also
// serves as the role catalog's in-use check before deleting a role.
func (s *Service) CountActiveByRole(ctx context.Context, roleID string) (int64, error) {
	return s.storage.CountActiveByRole(ctx, roleID)
}

// prepare validates the request against the role catalog and retires any
// expired binding still occupying the triple's active slot.
func (s *Service) prepare(ctx context.Context, req *Request, now time.Time) (role.Role, error) {
	if err := req.Validate(); err != nil {
		return role.Role{}, err
	}

	target, err := s.roles.ByID(ctx, req.RoleID)
	if err != nil {
		return role.Role{}, err
	}
	if !target.IsActive {
		return role.Role{}, role.ErrRoleNotFound
	}
	if target.OrganizationID != "" && target.OrganizationID != req.OrganizationID {
		return role.Role{}, ErrOrganizationMismatch
	}

	existing, err := s.storage.Find(ctx, req.UserID, req.RoleID, req.OrganizationID)
	switch {
	case err == nil && existing.ActiveAt(now):
		return role.Role{}, ErrRoleAssignmentExists
	case err == nil:
		// Expired but still flagged: retire it so the unique index frees
		// the slot for the new binding.
		existing.IsActive = false
		if err := s.storage.Update(ctx, existing); err != nil {
			return role.Role{}, fmt.Errorf("retire expired assignment: %w", err)
		}
	case !errors.Is(err, ErrAssignmentNotFound):
		return role.Role{}, err
	}
	return target, nil
}

func (s *Service) insert(ctx context.Context, req Request, assignedBy string, now time.Time) (Assignment, error) {
	a := Assignment{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
		AssignedBy:     assignedBy,
		AssignedAt:     now,
		ExpiresAt:      req.ExpiresAt,
		IsTemporary:    req.IsTemporary,
		IsActive:       true,
		Restrictions:   req.Restrictions,
	}
	if err := s.storage.Insert(ctx, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// checkManagedCap enforces MaxUsersManageable: when every rule that lets the
// actor assign this role carries a cap, the loosest cap applies to the
// number of distinct users the actor already manages in the organization.
func (s *Service) checkManagedCap(ctx context.Context, actorID, targetRoleName, organizationID string, now time.Time) error {
	actorRoles, err := s.heldRoles(ctx, actorID, organizationID)
	if err != nil {
		return err
	}

	limit := -1
	for _, held := range actorRoles {
		rule, ok := s.rules.ForRole(held.Name)
		if !ok || !rule.AllowsAssignment(targetRoleName) {
			continue
		}
		if rule.MaxUsersManageable == nil {
			return nil
		}
		if *rule.MaxUsersManageable > limit {
			limit = *rule.MaxUsersManageable
		}
	}
	if limit < 0 {
		return nil
	}

	managed, err := s.storage.CountManagedUsers(ctx, actorID, organizationID, now)
	if err != nil {
		return err
	}
	if managed >= int64(limit) {
		return ErrInsufficientPermission
	}
	return nil
}

// heldRoles resolves the actor's active bindings in the organization context
// to their role definitions.
func (s *Service) heldRoles(ctx context.Context, userID, organizationID string) ([]role.Role, error) {
	bindings, err := s.UserRoles(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}

	out := make([]role.Role, 0, len(bindings))
	for _, b := range bindings {
		def, err := s.roles.ByID(ctx, b.RoleID)
		if err != nil {
			if errors.Is(err, role.ErrRoleNotFound) {
				continue
			}
			return nil, err
		}
		if def.IsActive {
			out = append(out, def)
		}
	}
	return out, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, a Assignment, opts ...audit.EventOption) {
	all := append([]audit.EventOption{
		audit.WithOrganization(a.OrganizationID),
		audit.WithResource("role_assignment", a.ID),
		audit.WithMetadata("user_id", a.UserID),
		audit.WithMetadata("role_id", a.RoleID),
	}, opts...)
	if err := s.audit.Record(ctx, action, all...); err != nil {
		s.log.WarnContext(ctx, "audit record failed", logger.Error(err), slog.String("action", action))
	}
}
