package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcflow/accesskit/pkg/audit"
)

type ctxKey string

func TestRecorderRecord(t *testing.T) {
	t.Parallel()

	t.Run("records success event", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		rec := audit.NewRecorder(storage)

		err := rec.Record(context.Background(), "role.create",
			audit.WithActor("user-1"),
			audit.WithOrganization("org-1"),
			audit.WithResource("role", "role-1"),
			audit.WithMetadata("role_name", "organization_admin"),
		)
		require.NoError(t, err)

		events, err := storage.Query(context.Background(), audit.Criteria{})
		require.NoError(t, err)
		require.Len(t, events, 1)

		event := events[0]
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, "role.create", event.Action)
		assert.Equal(t, audit.ResultSuccess, event.Result)
		assert.Equal(t, "user-1", event.ActorID)
		assert.Equal(t, "org-1", event.OrganizationID)
		assert.Equal(t, "role", event.Resource)
		assert.Equal(t, "role-1", event.ResourceID)
		assert.Equal(t, "organization_admin", event.Metadata["role_name"])
		assert.False(t, event.CreatedAt.IsZero())
	})

	t.Run("records failure event with error text", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		rec := audit.NewRecorder(storage)

		cause := errors.New("role not found")
		err := rec.RecordError(context.Background(), "role.delete", cause,
			audit.WithResource("role", "missing"))
		require.NoError(t, err)

		events, err := storage.Query(context.Background(), audit.Criteria{})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ResultFailure, events[0].Result)
		assert.Equal(t, "role not found", events[0].Error)
	})

	t.Run("result override marks denials without an error", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		rec := audit.NewRecorder(storage)

		require.NoError(t, rec.Record(context.Background(), "assignment.create",
			audit.WithActor("user-2"),
			audit.WithResult(audit.ResultFailure),
		))

		events, err := storage.Query(context.Background(), audit.Criteria{})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ResultFailure, events[0].Result)
		assert.Empty(t, events[0].Error)
	})

	t.Run("rejects event without action", func(t *testing.T) {
		t.Parallel()

		rec := audit.NewRecorder(audit.NewMemoryStorage())
		err := rec.Record(context.Background(), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, audit.ErrEventValidation)
	})

	t.Run("fills fields from context extractors", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		rec := audit.NewRecorder(storage,
			audit.WithActorIDExtractor(func(ctx context.Context) (string, bool) {
				v, ok := ctx.Value(ctxKey("actor")).(string)
				return v, ok
			}),
			audit.WithOrganizationIDExtractor(func(ctx context.Context) (string, bool) {
				v, ok := ctx.Value(ctxKey("org")).(string)
				return v, ok
			}),
			audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
				v, ok := ctx.Value(ctxKey("req")).(string)
				return v, ok
			}),
		)

		ctx := context.WithValue(context.Background(), ctxKey("actor"), "user-9")
		ctx = context.WithValue(ctx, ctxKey("org"), "org-9")
		ctx = context.WithValue(ctx, ctxKey("req"), "req-9")

		require.NoError(t, rec.Record(ctx, "assignment.revoke"))

		events, err := storage.Query(context.Background(), audit.Criteria{})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "user-9", events[0].ActorID)
		assert.Equal(t, "org-9", events[0].OrganizationID)
		assert.Equal(t, "req-9", events[0].RequestID)
	})

	t.Run("explicit options override extracted values", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		rec := audit.NewRecorder(storage,
			audit.WithActorIDExtractor(func(ctx context.Context) (string, bool) {
				return "from-context", true
			}),
		)

		require.NoError(t, rec.Record(context.Background(), "role.update",
			audit.WithActor("explicit")))

		events, err := storage.Query(context.Background(), audit.Criteria{})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "explicit", events[0].ActorID)
	})

	t.Run("panics on nil storage", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { audit.NewRecorder(nil) })
	})
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	rec := audit.Noop()
	require.NoError(t, rec.Record(context.Background(), "anything"))
	require.NoError(t, rec.RecordError(context.Background(), "anything", errors.New("boom")))
}

func TestMemoryStorageQuery(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *audit.MemoryStorage {
		t.Helper()
		storage := audit.NewMemoryStorage()
		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		events := []audit.Event{
			{ID: "e1", OrganizationID: "org-1", ActorID: "user-1", Action: "role.create", Result: audit.ResultSuccess, CreatedAt: base},
			{ID: "e2", OrganizationID: "org-1", ActorID: "user-2", Action: "assignment.create", Result: audit.ResultSuccess, CreatedAt: base.Add(time.Minute)},
			{ID: "e3", OrganizationID: "org-2", ActorID: "user-1", Action: "role.create", Result: audit.ResultFailure, CreatedAt: base.Add(2 * time.Minute)},
			{ID: "e4", OrganizationID: "org-1", ActorID: "user-1", Action: "role.delete", Result: audit.ResultSuccess, CreatedAt: base.Add(3 * time.Minute)},
		}
		for _, e := range events {
			require.NoError(t, storage.Store(context.Background(), e))
		}
		return storage
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		events, err := seed(t).Query(context.Background(), audit.Criteria{})
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, "e4", events[0].ID)
		assert.Equal(t, "e1", events[3].ID)
	})

	t.Run("filters by organization and actor", func(t *testing.T) {
		t.Parallel()

		events, err := seed(t).Query(context.Background(), audit.Criteria{
			OrganizationID: "org-1",
			ActorID:        "user-1",
		})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "e4", events[0].ID)
		assert.Equal(t, "e1", events[1].ID)
	})

	t.Run("filters by time window", func(t *testing.T) {
		t.Parallel()

		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		events, err := seed(t).Query(context.Background(), audit.Criteria{
			Since: base.Add(30 * time.Second),
			Until: base.Add(150 * time.Second),
		})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "e3", events[0].ID)
		assert.Equal(t, "e2", events[1].ID)
	})

	t.Run("applies limit and offset after ordering", func(t *testing.T) {
		t.Parallel()

		events, err := seed(t).Query(context.Background(), audit.Criteria{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "e3", events[0].ID)
		assert.Equal(t, "e2", events[1].ID)
	})

	t.Run("offset past end returns empty", func(t *testing.T) {
		t.Parallel()

		events, err := seed(t).Query(context.Background(), audit.Criteria{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestReaderCount(t *testing.T) {
	t.Parallel()

	t.Run("uses storage counter when available", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		for i := 0; i < 3; i++ {
			require.NoError(t, storage.Store(context.Background(), audit.Event{
				ID:        string(rune('a' + i)),
				Action:    "role.create",
				Result:    audit.ResultSuccess,
				CreatedAt: time.Now(),
			}))
		}

		reader := audit.NewReader(storage)
		n, err := reader.Count(context.Background(), audit.Criteria{Action: "role.create"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("falls back to query for plain storages", func(t *testing.T) {
		t.Parallel()

		storage := &queryOnlyStorage{inner: audit.NewMemoryStorage()}
		require.NoError(t, storage.Store(context.Background(), audit.Event{
			ID: "x", Action: "role.create", Result: audit.ResultSuccess, CreatedAt: time.Now(),
		}))

		reader := audit.NewReader(storage)
		n, err := reader.Count(context.Background(), audit.Criteria{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

// queryOnlyStorage hides MemoryStorage's Count to exercise the fallback path.
type queryOnlyStorage struct {
	inner *audit.MemoryStorage
}

func (s *queryOnlyStorage) Store(ctx context.Context, e audit.Event) error {
	return s.inner.Store(ctx, e)
}

func (s *queryOnlyStorage) Query(ctx context.Context, c audit.Criteria) ([]audit.Event, error) {
	return s.inner.Query(ctx, c)
}
