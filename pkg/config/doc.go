// Package config loads env-tagged configuration structs for the access
// services. It wraps caarlos0/env with a one-time .env load via godotenv and
// caches each struct type so every component sees the same parsed values.
//
//	type StoreConfig struct {
//	    URL      string `env:"MONGODB_URL,required"`
//	    Database string `env:"MONGODB_DATABASE,required"`
//	}
//
//	var cfg StoreConfig
//	config.MustLoad(&cfg)
//
// MustLoad panics on a missing required variable so misconfigured services
// fail at startup.
package config
