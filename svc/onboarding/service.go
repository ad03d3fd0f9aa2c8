package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lcflow/accesskit/pkg/audit"
	"github.com/lcflow/accesskit/pkg/email"
	"github.com/lcflow/accesskit/pkg/logger"
	"github.com/lcflow/accesskit/pkg/permission"
	"github.com/lcflow/accesskit/pkg/statemachine"
	"github.com/lcflow/accesskit/svc/assignment"
	"github.com/lcflow/accesskit/svc/role"
)

// RoleDirectory resolves the final role's name to its definition.
// *role.Service satisfies it.
type RoleDirectory interface {
	ByName(ctx context.Context, name, organizationID string) (role.Role, error)
}

// RoleGranter writes the permanent role into the assignment ledger through
// its trust path. *assignment.Service satisfies it.
type RoleGranter interface {
	Grant(ctx context.Context, req assignment.Request, grantedBy string) (assignment.Assignment, error)
}

// Service runs onboarding journeys: it starts them, walks them through the
// step machine, and finalizes them with the permanent role grant.
type Service struct {
	storage Storage
	roles   RoleDirectory
	granter RoleGranter
	machine *statemachine.Machine
	email   email.Sender
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

// WithEmailSender sets the sender for the welcome email. Defaults to the
// dev sender logging through the service logger.
func WithEmailSender(sender email.Sender) Option {
	return func(s *Service) {
		if sender != nil {
			s.email = sender
		}
	}
}

// NewService creates the onboarding service.
func NewService(storage Storage, roles RoleDirectory, granter RoleGranter, opts ...Option) *Service {
	if storage == nil {
		panic("onboarding: storage cannot be nil")
	}
	if roles == nil {
		panic("onboarding: role directory cannot be nil")
	}
	if granter == nil {
		panic("onboarding: role granter cannot be nil")
	}
	s := &Service{
		storage: storage,
		roles:   roles,
		granter: granter,
		machine: newJourneyMachine(),
		log:     slog.New(slog.DiscardHandler),
		audit:   audit.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.email == nil {
		s.email = email.NewDevSender(s.log)
	}
	return s
}

// JourneySteps returns the static step catalog.
func (s *Service) JourneySteps() []StepDefinition {
	return Steps()
}

// StartJourney creates the journey for the pair, or returns the existing
// one unchanged. New journeys start at step 1 with the temporary
// permissions a user needs to finish onboarding.
func (s *Service) StartJourney(ctx context.Context, userID, organizationID, organizationType string) (Journey, error) {
	if userID == "" {
		return Journey{}, fmt.Errorf("%w: user id is required", ErrInvalidJourney)
	}
	if organizationID == "" {
		return Journey{}, fmt.Errorf("%w: organization id is required", ErrInvalidJourney)
	}

	existing, err := s.storage.Find(ctx, userID, organizationID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrJourneyNotFound) {
		return Journey{}, err
	}

	now := time.Now().UTC()
	j := Journey{
		ID:               uuid.New().String(),
		UserID:           userID,
		OrganizationID:   organizationID,
		OrganizationType: organizationType,
		CurrentStep:      1,
		StepData:         make(map[string]map[string]any),
		TemporaryPermissions: permission.Strings(
			permission.OrgView,
			permission.ProfileEdit,
			permission.OnboardingAccess,
		),
		StartedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.Insert(ctx, j); err != nil {
		// A concurrent start may have won the unique slot.
		if errors.Is(err, ErrJourneyExists) {
			return s.storage.Find(ctx, userID, organizationID)
		}
		return Journey{}, err
	}

	s.recordAudit(ctx, "onboarding.start", j)
	s.log.InfoContext(ctx, "onboarding journey started",
		logger.UserID(userID), logger.OrganizationID(organizationID),
		slog.String("organization_type", organizationType))
	return j, nil
}

// Journey returns the pair's in-flight journey. Completed journeys report
// ErrJourneyNotFound.
func (s *Service) Journey(ctx context.Context, userID, organizationID string) (Journey, error) {
	return s.storage.FindIncomplete(ctx, userID, organizationID)
}

// CompleteStep validates the payload for the journey's current step and
// advances the machine. Submitting any step other than the current one,
// replayed or skipped ahead, is rejected with ErrInvalidStepNumber. The
// final step finalizes the journey.
func (s *Service) CompleteStep(ctx context.Context, userID, organizationID string, stepNumber int, data map[string]any) (Journey, error) {
	j, err := s.storage.FindIncomplete(ctx, userID, organizationID)
	if err != nil {
		return Journey{}, err
	}
	if stepNumber != j.CurrentStep {
		return Journey{}, fmt.Errorf("%w: got step %d, journey is at step %d",
			ErrInvalidStepNumber, stepNumber, j.CurrentStep)
	}
	def, ok := stepByNumber(stepNumber)
	if !ok {
		return Journey{}, fmt.Errorf("%w: step %d is not defined", ErrInvalidStepNumber, stepNumber)
	}

	next, err := s.machine.Fire(ctx, stateForStep(stepNumber), advance, submission{
		Definition: def,
		Data:       data,
	})
	if err != nil {
		if statemachine.IsTransitionRejectedError(err) {
			verrs := validateStep(def, data)
			return Journey{}, fmt.Errorf("%w: %w", ErrStepValidationFailed, verrs)
		}
		return Journey{}, fmt.Errorf("advance journey: %w", err)
	}

	now := time.Now().UTC()
	if j.StepData == nil {
		j.StepData = make(map[string]map[string]any)
	}
	j.StepData[stepKey(stepNumber)] = data
	if !j.HasCompleted(stepNumber) {
		j.CompletedSteps = append(j.CompletedSteps, stepNumber)
	}
	j.UpdatedAt = now

	if next.Name() == completedState.Name() {
		return s.finalize(ctx, j, now)
	}

	j.CurrentStep = stepNumber + 1
	if err := s.storage.Update(ctx, j); err != nil {
		return Journey{}, err
	}

	s.log.InfoContext(ctx, "onboarding step completed",
		logger.UserID(userID), logger.OrganizationID(organizationID),
		logger.Step(stepNumber), slog.String("step_name", def.Name))
	return j, nil
}

// finalize grants the permanent role, stamps completion, clears the
// temporary permissions, and sends the welcome email. The grant happens
// before the journey is saved as complete, so a failed grant leaves the
// journey retryable.
func (s *Service) finalize(ctx context.Context, j Journey, now time.Time) (Journey, error) {
	roleName := finalRoleName(j.StepData)
	def, err := s.roles.ByName(ctx, roleName, j.OrganizationID)
	if err != nil {
		return Journey{}, fmt.Errorf("resolve final role %q: %w", roleName, err)
	}

	_, err = s.granter.Grant(ctx, assignment.Request{
		UserID:         j.UserID,
		RoleID:         def.ID,
		OrganizationID: j.OrganizationID,
	}, assignment.SystemOnboarding)
	if err != nil && !errors.Is(err, assignment.ErrRoleAssignmentExists) {
		return Journey{}, fmt.Errorf("grant final role %q: %w", roleName, err)
	}

	j.IsComplete = true
	j.CompletedAt = &now
	j.AssignedRoles = []string{roleName}
	j.TemporaryPermissions = nil
	if err := s.storage.Update(ctx, j); err != nil {
		return Journey{}, err
	}

	s.sendWelcome(ctx, j, def.DisplayName)
	s.recordAudit(ctx, "onboarding.complete", j,
		audit.WithMetadata("assigned_role", roleName))

	s.log.InfoContext(ctx, "onboarding journey completed",
		logger.UserID(j.UserID), logger.OrganizationID(j.OrganizationID),
		logger.Role(roleName))
	return j, nil
}

// finalRoleName maps the organization role captured in step 1 onto the
// permanent role: anything admin-like becomes organization_admin, anything
// manager-like organization_manager, everyone else organization_user.
func finalRoleName(stepData map[string]map[string]any) string {
	raw, _ := stepData[stepKey(1)]["organizationRole"].(string)
	switch v := strings.ToLower(strings.TrimSpace(raw)); {
	case strings.Contains(v, "admin"):
		return "organization_admin"
	case strings.Contains(v, "manager"):
		return "organization_manager"
	default:
		return "organization_user"
	}
}

// sendWelcome is best-effort: delivery problems are logged and never fail
// the journey.
func (s *Service) sendWelcome(ctx context.Context, j Journey, roleTitle string) {
	profile := j.StepData[stepKey(2)]
	addr, _ := profile["email"].(string)
	if addr == "" {
		return
	}
	firstName, _ := profile["firstName"].(string)
	orgName, _ := j.StepData[stepKey(1)]["organizationName"].(string)

	body, err := renderWelcome(welcomeData{
		FirstName:        firstName,
		OrganizationName: orgName,
		RoleTitle:        roleTitle,
	})
	if err != nil {
		s.log.WarnContext(ctx, "welcome email render failed", logger.Error(err), logger.UserID(j.UserID))
		return
	}

	err = s.email.Send(ctx, email.SendParams{
		SendTo:   addr,
		Subject:  "Welcome to LCFlow",
		BodyHTML: body,
		Tag:      "onboarding-welcome",
	})
	if err != nil {
		s.log.WarnContext(ctx, "welcome email send failed", logger.Error(err), logger.UserID(j.UserID))
	}
}

func (s *Service) recordAudit(ctx context.Context, action string, j Journey, opts ...audit.EventOption) {
	all := append([]audit.EventOption{
		audit.WithOrganization(j.OrganizationID),
		audit.WithActor(assignment.SystemOnboarding),
		audit.WithResource("onboarding_journey", j.ID),
		audit.WithMetadata("user_id", j.UserID),
	}, opts...)
	if err := s.audit.Record(ctx, action, all...); err != nil {
		s.log.WarnContext(ctx, "audit record failed", logger.Error(err), slog.String("action", action))
	}
}
