package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcflow/accesskit/pkg/binder"
	"github.com/lcflow/accesskit/pkg/handler"
	"github.com/lcflow/accesskit/svc/onboarding"
)

// OnboardingService exposes the five-step onboarding journey over HTTP.
type OnboardingService struct {
	onboarding *onboarding.Service
	log        *slog.Logger
	fail       handler.ErrorHandler[handler.Context]
}

func NewOnboardingService(svc *onboarding.Service, log *slog.Logger) *OnboardingService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &OnboardingService{
		onboarding: svc,
		log:        log,
		fail:       failFunc(log),
	}
}

func (s *OnboardingService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/start", handler.Wrap(s.start,
		handler.WithBinders[handler.Context, startJourneyRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, startJourneyRequest](s.fail),
	))
	r.Get("/steps", handler.Wrap(s.steps,
		handler.WithErrorHandler[handler.Context, struct{}](s.fail),
	))
	r.Get("/{orgID}/{userID}", handler.Wrap(s.journey,
		handler.WithBinders[handler.Context, journeyRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, journeyRequest](s.fail),
	))
	r.Post("/{orgID}/{userID}/steps/{step}", handler.Wrap(s.completeStep,
		handler.WithBinders[handler.Context, completeStepRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[handler.Context, completeStepRequest](s.fail),
	))

	return r
}

type startJourneyRequest struct {
	UserID           string `json:"user_id"`
	OrganizationID   string `json:"organization_id"`
	OrganizationType string `json:"organization_type"`
}

// start begins a journey, or returns the existing one unchanged when the
// pair has already started. Safe to retry.
func (s *OnboardingService) start(ctx handler.Context, req startJourneyRequest) handler.Response {
	j, err := s.onboarding.StartJourney(ctx, req.UserID, req.OrganizationID, req.OrganizationType)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(j)
}

func (s *OnboardingService) steps(ctx handler.Context, _ struct{}) handler.Response {
	steps := s.onboarding.JourneySteps()
	return handler.JSON(steps, handler.WithJSONMeta(map[string]any{"count": len(steps)}))
}

type journeyRequest struct {
	OrganizationID string `path:"orgID"`
	UserID         string `path:"userID"`
}

func (s *OnboardingService) journey(ctx handler.Context, req journeyRequest) handler.Response {
	j, err := s.onboarding.Journey(ctx, req.UserID, req.OrganizationID)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(j)
}

type completeStepRequest struct {
	OrganizationID string         `path:"orgID" json:"-"`
	UserID         string         `path:"userID" json:"-"`
	Step           int            `path:"step" json:"-"`
	Data           map[string]any `json:"data"`
}

func (s *OnboardingService) completeStep(ctx handler.Context, req completeStepRequest) handler.Response {
	j, err := s.onboarding.CompleteStep(ctx, req.UserID, req.OrganizationID, req.Step, req.Data)
	if err != nil {
		return respondError(ctx, s.log, err)
	}
	return handler.JSON(j)
}
