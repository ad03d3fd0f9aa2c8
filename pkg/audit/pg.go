package audit

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the schema migrations for the Postgres storage, in the
// format expected by pg.Migrate.
func Migrations() fs.FS { return migrationsFS }

// PGStorage persists events in a Postgres table. Schema is managed by the
// migrations returned from Migrations.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a storage backed by the given pool.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	if pool == nil {
		panic("audit: pool cannot be nil")
	}
	return &PGStorage{pool: pool}
}

// Store inserts the event.
func (s *PGStorage) Store(ctx context.Context, event Event) error {
	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO audit_events (
			id, organization_id, actor_id, action, resource, resource_id,
			result, error, request_id, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID,
		nullable(event.OrganizationID),
		nullable(event.ActorID),
		event.Action,
		nullable(event.Resource),
		nullable(event.ResourceID),
		string(event.Result),
		nullable(event.Error),
		nullable(event.RequestID),
		metadata,
		event.CreatedAt,
	)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

// Query returns matching events, newest first.
func (s *PGStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	query, args := buildQuery(criteria, false)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, errors.Join(ErrStorageFailure, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return events, nil
}

// Count returns the number of matching events, ignoring Limit and Offset.
func (s *PGStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	query, args := buildQuery(criteria, true)
	var n int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Join(ErrStorageFailure, err)
	}
	return n, nil
}

func buildQuery(criteria Criteria, count bool) (string, []any) {
	var sb strings.Builder
	if count {
		sb.WriteString("SELECT COUNT(*) FROM audit_events")
	} else {
		sb.WriteString(`SELECT id, organization_id, actor_id, action, resource, resource_id,
			result, error, request_id, metadata, created_at FROM audit_events`)
	}

	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if criteria.OrganizationID != "" {
		add("organization_id = $%d", criteria.OrganizationID)
	}
	if criteria.ActorID != "" {
		add("actor_id = $%d", criteria.ActorID)
	}
	if criteria.Action != "" {
		add("action = $%d", criteria.Action)
	}
	if criteria.Resource != "" {
		add("resource = $%d", criteria.Resource)
	}
	if criteria.ResourceID != "" {
		add("resource_id = $%d", criteria.ResourceID)
	}
	if !criteria.Since.IsZero() {
		add("created_at >= $%d", criteria.Since)
	}
	if !criteria.Until.IsZero() {
		add("created_at <= $%d", criteria.Until)
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	if !count {
		sb.WriteString(" ORDER BY created_at DESC")
		if criteria.Limit > 0 {
			fmt.Fprintf(&sb, " LIMIT %d", criteria.Limit)
		}
		if criteria.Offset > 0 {
			fmt.Fprintf(&sb, " OFFSET %d", criteria.Offset)
		}
	}
	return sb.String(), args
}

func scanEvent(rows pgx.Rows) (Event, error) {
	var (
		event     Event
		orgID     *string
		actorID   *string
		resource  *string
		resID     *string
		result    string
		errText   *string
		requestID *string
		metadata  []byte
		createdAt time.Time
	)
	if err := rows.Scan(&event.ID, &orgID, &actorID, &event.Action, &resource, &resID,
		&result, &errText, &requestID, &metadata, &createdAt); err != nil {
		return Event{}, err
	}
	event.OrganizationID = deref(orgID)
	event.ActorID = deref(actorID)
	event.Resource = deref(resource)
	event.ResourceID = deref(resID)
	event.Result = Result(result)
	event.Error = deref(errText)
	event.RequestID = deref(requestID)
	event.CreatedAt = createdAt
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return Event{}, err
		}
	}
	return event, nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
