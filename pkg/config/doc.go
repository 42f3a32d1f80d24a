// Package config loads typed configuration structs from environment
// variables.
//
// Values are parsed with caarlos0/env struct tags; a local .env file is
// loaded once per process if present. Each configuration type is parsed
// exactly once and cached, so packages can call Load for their own config
// without coordinating with each other.
//
// Usage:
//
//	type StoreConfig struct {
//		Collection string `env:"STATES_COLLECTION,required"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// MustLoad panics on failure and is intended for service startup, where a
// missing required variable must prevent the process from serving traffic
// rather than let it run misconfigured.
package config
