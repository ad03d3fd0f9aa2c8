package audit

import (
	"fmt"
	"time"
)

// Result is the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Event is a single audit trail entry.
type Event struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	ActorID        string         `json:"actor_id"`
	Action         string         `json:"action"`
	Resource       string         `json:"resource"`
	ResourceID     string         `json:"resource_id"`
	Result         Result         `json:"result"`
	Error          string         `json:"error,omitempty"`
	RequestID      string         `json:"request_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Validate checks the event carries the required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// EventOption adjusts an Event during Record/RecordError.
type EventOption func(*Event)

// WithActor sets who performed the action.
func WithActor(actorID string) EventOption {
	return func(e *Event) { e.ActorID = actorID }
}

// WithOrganization sets the tenant scope of the action.
func WithOrganization(orgID string) EventOption {
	return func(e *Event) { e.OrganizationID = orgID }
}

// WithResource sets the resource type and identifier.
func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

// WithMetadata attaches a key/value pair to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithResult overrides the default result.
func WithResult(result Result) EventOption {
	return func(e *Event) { e.Result = result }
}
