// Package pg manages the PostgreSQL pool backing the audit trail. The
// operational stores live in MongoDB; Postgres holds the append-only audit
// events where compliance queries and retention policies live.
//
// Connect retries with linear backoff so services starting alongside the
// database do not crash-loop. Migrate applies embedded goose migrations and
// routes goose output through the application logger.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, audit.Migrations(), cfg, log); err != nil {
//	    return err
//	}
package pg
