package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lcflow/accesskit/pkg/audit"
	"github.com/lcflow/accesskit/pkg/logger"
)

// Service is the role catalog: definition CRUD, bootstrap catalogs, and
// hierarchy materialization. Construct once at startup and share.
type Service struct {
	storage   Storage
	hierarchy HierarchyStorage
	rules     RuleSet
	counter   AssignmentCounter
	log       *slog.Logger
	audit     audit.Recorder
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

// WithAssignmentCounter wires the active-assignment check used by Delete.
// Without it, Delete skips the in-use guard.
func WithAssignmentCounter(c AssignmentCounter) Option {
	return func(s *Service) { s.counter = c }
}

// WithRules replaces the built-in assignment rule table.
func WithRules(rs RuleSet) Option {
	return func(s *Service) {
		if rs != nil {
			s.rules = rs
		}
	}
}

// WithHierarchyStorage sets a dedicated snapshot storage. By default the
// main storage is used when it also implements HierarchyStorage.
func WithHierarchyStorage(hs HierarchyStorage) Option {
	return func(s *Service) { s.hierarchy = hs }
}

// NewService creates the role catalog service.
func NewService(storage Storage, opts ...Option) *Service {
	if storage == nil {
		panic("role: storage cannot be nil")
	}
	s := &Service{
		storage: storage,
		rules:   DefaultRules(),
		log:     slog.New(slog.DiscardHandler),
		audit:   audit.Noop(),
	}
	if hs, ok := storage.(HierarchyStorage); ok {
		s.hierarchy = hs
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the assignment rule table the service was built with.
func (s *Service) Rules() RuleSet { return s.rules }

// Create persists a new role definition. The role becomes active regardless
// of the input flag; deactivation goes through Delete or Update. When
// ParentRoleID is set the parent must exist, and the new role is registered
// in its ChildRoles list.
func (s *Service) Create(ctx context.Context, r Role) (Role, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.IsActive = true
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := r.Validate(); err != nil {
		return Role{}, err
	}

	// Pre-checks are advisory; the storage unique index has the last word.
	if _, err := s.storage.FindByName(ctx, r.Name, r.OrganizationID); err == nil {
		return Role{}, ErrDuplicateRole
	}

	var parent Role
	if r.ParentRoleID != "" {
		var err error
		parent, err = s.storage.FindByID(ctx, r.ParentRoleID)
		if err != nil {
			return Role{}, fmt.Errorf("parent role: %w", err)
		}
	}

	if err := s.storage.Insert(ctx, r); err != nil {
		return Role{}, err
	}

	if r.ParentRoleID != "" && !slices.Contains(parent.ChildRoles, r.ID) {
		parent.ChildRoles = append(parent.ChildRoles, r.ID)
		parent.UpdatedAt = now
		if err := s.storage.Update(ctx, parent); err != nil {
			s.log.WarnContext(ctx, "failed to register child role on parent",
				logger.Error(err), logger.RoleID(r.ParentRoleID))
		}
	}

	s.recordAudit(ctx, "role.create", r.OrganizationID, r.ID,
		audit.WithMetadata("role_name", r.Name))

	s.log.InfoContext(ctx, "role created",
		logger.RoleID(r.ID), logger.Role(r.Name), logger.OrganizationID(r.OrganizationID))
	return r, nil
}

// ByID returns a role by its id.
func (s *Service) ByID(ctx context.Context, id string) (Role, error) {
	return s.storage.FindByID(ctx, id)
}

// ByName returns a role by name within one organization scope. Pass an
// empty organization id for platform roles.
func (s *Service) ByName(ctx context.Context, name, organizationID string) (Role, error) {
	return s.storage.FindByName(ctx, name, organizationID)
}

// Update applies a partial patch. Name, Level, and OrganizationID cannot be
// changed; the Patch type has no such fields.
func (s *Service) Update(ctx context.Context, id string, patch Patch, actor string) (Role, error) {
	r, err := s.storage.FindByID(ctx, id)
	if err != nil {
		return Role{}, err
	}

	if err := patch.apply(&r); err != nil {
		return Role{}, err
	}
	r.UpdatedAt = time.Now().UTC()

	if err := s.storage.Update(ctx, r); err != nil {
		return Role{}, err
	}

	opts := []audit.EventOption{audit.WithMetadata("role_name", r.Name)}
	if actor != "" {
		opts = append(opts, audit.WithActor(actor))
	}
	s.recordAudit(ctx, "role.update", r.OrganizationID, r.ID, opts...)
	return r, nil
}

// Delete deactivates a role. System roles are protected, and a role with
// active assignments cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string, actor string) error {
	r, err := s.storage.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r.IsSystemRole {
		return ErrSystemRoleProtected
	}

	if s.counter != nil {
		n, err := s.counter.CountActiveByRole(ctx, id)
		if err != nil {
			return fmt.Errorf("count active assignments: %w", err)
		}
		if n > 0 {
			return ErrRoleInUse
		}
	}

	r.IsActive = false
	r.UpdatedAt = time.Now().UTC()
	if err := s.storage.Update(ctx, r); err != nil {
		return err
	}

	opts := []audit.EventOption{audit.WithMetadata("role_name", r.Name)}
	if actor != "" {
		opts = append(opts, audit.WithActor(actor))
	}
	s.recordAudit(ctx, "role.delete", r.OrganizationID, r.ID, opts...)

	s.log.InfoContext(ctx, "role deactivated",
		logger.RoleID(r.ID), logger.Role(r.Name), logger.ActorID(actor))
	return nil
}

// List returns roles matching the filter, sorted by name.
func (s *Service) List(ctx context.Context, f Filter) ([]Role, error) {
	return s.storage.List(ctx, f)
}

// PlatformRoles returns all active platform-scoped roles.
func (s *Service) PlatformRoles(ctx context.Context) ([]Role, error) {
	return s.storage.List(ctx, Filter{ActiveOnly: true})
}

// OrganizationHierarchy returns the stored hierarchy snapshot for an
// organization, building and persisting one on first access.
func (s *Service) OrganizationHierarchy(ctx context.Context, organizationID string) (Hierarchy, error) {
	if s.hierarchy == nil {
		return Hierarchy{}, ErrHierarchyNotFound
	}
	h, err := s.hierarchy.FindHierarchy(ctx, organizationID)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, ErrHierarchyNotFound) {
		return Hierarchy{}, err
	}
	return s.CreateOrganizationHierarchy(ctx, organizationID)
}

// CreateOrganizationHierarchy rebuilds the snapshot from the organization's
// active roles plus visible platform roles, replacing any stored version.
func (s *Service) CreateOrganizationHierarchy(ctx context.Context, organizationID string) (Hierarchy, error) {
	if s.hierarchy == nil {
		return Hierarchy{}, ErrHierarchyNotFound
	}

	roles, err := s.storage.List(ctx, Filter{
		OrganizationID: organizationID,
		IncludeSystem:  true,
		ActiveOnly:     true,
	})
	if err != nil {
		return Hierarchy{}, err
	}

	h := Hierarchy{
		OrganizationID: organizationID,
		Nodes:          BuildHierarchy(roles, s.rules),
		GeneratedAt:    time.Now().UTC(),
	}
	for _, r := range roles {
		h.AllowedRoles = append(h.AllowedRoles, r.ID)
		if r.IsDefault {
			h.DefaultRoles = append(h.DefaultRoles, r.ID)
		}
	}
	slices.Sort(h.AllowedRoles)
	slices.Sort(h.DefaultRoles)

	if err := s.hierarchy.SaveHierarchy(ctx, h); err != nil {
		return Hierarchy{}, err
	}

	s.log.InfoContext(ctx, "role hierarchy rebuilt",
		logger.OrganizationID(organizationID),
		slog.Int("roles", len(roles)))
	return h, nil
}

func (s *Service) recordAudit(ctx context.Context, action, orgID, roleID string, opts ...audit.EventOption) {
	all := append([]audit.EventOption{
		audit.WithOrganization(orgID),
		audit.WithResource("role", roleID),
	}, opts...)
	if err := s.audit.Record(ctx, action, all...); err != nil {
		s.log.WarnContext(ctx, "audit record failed", logger.Error(err), slog.String("action", action))
	}
}
