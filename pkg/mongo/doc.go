// Package mongo manages the MongoDB connection backing the access stores
// (role definitions, assignments, hierarchy snapshots, onboarding journeys).
//
// Configuration is environment-driven and New retries the initial connection
// so services survive transient unavailability during rollout.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	db := client.Database(cfg.Database)
//
// Healthcheck returns a probe function for readiness endpoints.
package mongo
