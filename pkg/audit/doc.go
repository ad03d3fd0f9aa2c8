// Package audit records who changed what in the access system: role
// definition changes, assignment grants and revocations, and onboarding
// completions. Events are append-only; nothing in the runtime path reads
// them back except compliance queries through Reader.
//
// The Recorder fills IDs and timestamps, pulls request-scoped values from
// context via registered extractors, and hands the event to a Storage.
// Two storages ship with the package: MemoryStorage for tests and
// development, and PGStorage writing to PostgreSQL through pgx, with its
// schema applied from the embedded migrations.
//
//	rec := audit.NewRecorder(storage,
//	    audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
//	        id := requestid.FromContext(ctx)
//	        return id, id != ""
//	    }),
//	)
//
//	_ = rec.Record(ctx, "role.assign",
//	    audit.WithActor(actorID),
//	    audit.WithOrganization(orgID),
//	    audit.WithResource("role_assignment", assignmentID),
//	    audit.WithMetadata("role_id", roleID),
//	)
//
// Recording failures are returned to the caller, which logs and continues:
// an unavailable audit store must never fail the underlying operation.
package audit
