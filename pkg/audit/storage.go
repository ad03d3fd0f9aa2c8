package audit

import (
	"context"
	"time"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
}

// StorageCounter is implemented by storages with an optimized count path.
type StorageCounter interface {
	Count(ctx context.Context, criteria Criteria) (int64, error)
}

// Criteria narrows a Query. Zero values mean "any"; results come back
// newest first.
type Criteria struct {
	OrganizationID string
	ActorID        string
	Action         string
	Resource       string
	ResourceID     string
	Since          time.Time
	Until          time.Time
	Limit          int
	Offset         int
}

func (c Criteria) matches(e Event) bool {
	if c.OrganizationID != "" && e.OrganizationID != c.OrganizationID {
		return false
	}
	if c.ActorID != "" && e.ActorID != c.ActorID {
		return false
	}
	if c.Action != "" && e.Action != c.Action {
		return false
	}
	if c.Resource != "" && e.Resource != c.Resource {
		return false
	}
	if c.ResourceID != "" && e.ResourceID != c.ResourceID {
		return false
	}
	if !c.Since.IsZero() && e.CreatedAt.Before(c.Since) {
		return false
	}
	if !c.Until.IsZero() && e.CreatedAt.After(c.Until) {
		return false
	}
	return true
}
