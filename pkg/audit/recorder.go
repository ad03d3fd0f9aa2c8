package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recorder writes events to the audit trail.
type Recorder interface {
	Record(ctx context.Context, action string, opts ...EventOption) error
	RecordError(ctx context.Context, action string, err error, opts ...EventOption) error
}

// contextExtractor pulls a string value from context, reporting whether it
// was present.
type contextExtractor func(context.Context) (string, bool)

type recorder struct {
	storage          Storage
	orgIDExtractor   contextExtractor
	actorIDExtractor contextExtractor
	reqIDExtractor   contextExtractor
}

// Option configures a Recorder.
type Option func(*recorder)

// WithOrganizationIDExtractor fills OrganizationID from context when the
// call site does not set it explicitly.
func WithOrganizationIDExtractor(fn contextExtractor) Option {
	return func(r *recorder) { r.orgIDExtractor = fn }
}

// WithActorIDExtractor fills ActorID from context.
func WithActorIDExtractor(fn contextExtractor) Option {
	return func(r *recorder) { r.actorIDExtractor = fn }
}

// WithRequestIDExtractor fills RequestID from context.
func WithRequestIDExtractor(fn contextExtractor) Option {
	return func(r *recorder) { r.reqIDExtractor = fn }
}

// NewRecorder creates a Recorder writing to the given storage.
func NewRecorder(storage Storage, opts ...Option) Recorder {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	r := &recorder{storage: storage}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record writes a successful action.
func (r *recorder) Record(ctx context.Context, action string, opts ...EventOption) error {
	event := r.eventFromContext(ctx)
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()
	event.Action = action
	event.Result = ResultSuccess

	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return r.storage.Store(ctx, event)
}

// RecordError writes a failed action. The error text is stored verbatim, so
// callers must not put secrets in error messages.
func (r *recorder) RecordError(ctx context.Context, action string, cause error, opts ...EventOption) error {
	event := r.eventFromContext(ctx)
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()
	event.Action = action
	event.Result = ResultFailure
	if cause != nil {
		event.Error = cause.Error()
	}

	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return r.storage.Store(ctx, event)
}

func (r *recorder) eventFromContext(ctx context.Context) Event {
	var event Event
	if r.orgIDExtractor != nil {
		if v, ok := r.orgIDExtractor(ctx); ok {
			event.OrganizationID = v
		}
	}
	if r.actorIDExtractor != nil {
		if v, ok := r.actorIDExtractor(ctx); ok {
			event.ActorID = v
		}
	}
	if r.reqIDExtractor != nil {
		if v, ok := r.reqIDExtractor(ctx); ok {
			event.RequestID = v
		}
	}
	return event
}

// Noop returns a Recorder that drops every event. Services default to it so
// audit wiring stays optional.
func Noop() Recorder { return noopRecorder{} }

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string, ...EventOption) error { return nil }
func (noopRecorder) RecordError(context.Context, string, error, ...EventOption) error {
	return nil
}
