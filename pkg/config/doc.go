// Package config loads typed configuration structs from environment
// variables, with optional .env support for local development.
//
// Every component declares its own Config struct with env tags (see
// pg.Config, redis.Config, billing.LemonSqueezyConfig) and loads it
// through config.Load. Parsed configs are cached per type so wiring
// code can load the same struct from multiple places without repeated
// environment parsing.
package config
